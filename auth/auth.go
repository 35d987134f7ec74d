package auth

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionHandler(w, r)
}
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	loginHandler(w, r)
}
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logoutHandler(w, r)
}
