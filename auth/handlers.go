package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"dondar/db"
	"dondar/globals"
	"dondar/middleware"
	"dondar/models"
	"dondar/rdx"
	"dondar/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	anonSessionTTL  = 24 * time.Hour
	adminSessionTTL = 12 * time.Hour
)

// sessionHandler issues an anonymous session token. The public form calls
// this before submitting; the workflow refuses writes without a resolved
// identity.
func sessionHandler(w http.ResponseWriter, r *http.Request) {
	userID := "anon_" + utils.GenerateRandomString(16)

	claims := &middleware.Claims{
		UserID: userID,
		Role:   []string{"donor"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(anonSessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":  tokenString,
		"userid": userID,
	}, "Session created", nil)
}

// loginHandler signs in the administrator. Only the single fixed admin
// identity is ever granted the admin role.
func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": input.Email}).Decode(&storedUser)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if storedUser.Email != globals.AdminEmail {
		http.Error(w, "Admin access required", http.StatusForbidden)
		return
	}

	claims := &middleware.Claims{
		Email:  storedUser.Email,
		UserID: storedUser.UserID,
		Role:   storedUser.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminSessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		http.Error(w, "Failed to record login", http.StatusInternalServerError)
		return
	}

	if err := rdx.RdxSet("session:"+storedUser.UserID, tokenString, adminSessionTTL); err != nil {
		log.Printf("Redis session storage failed: %v", err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":  tokenString,
		"userid": storedUser.UserID,
	}, "Login successful", nil)
}

// logoutHandler drops the cached admin session.
func logoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if err := rdx.RdxDel("session:" + claims.UserID); err != nil {
		log.Printf("Redis session delete failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
