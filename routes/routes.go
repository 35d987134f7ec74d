package routes

import (
	"net/http"

	"dondar/admin"
	"dondar/auth"
	"dondar/middleware"
	"dondar/ratelim"
	"dondar/register"
	"dondar/slots"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/slotpic/*filepath", http.Dir("static/slotpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/session", rl.Limit(auth.Session))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", auth.Logout)
}

func AddSlotRoutes(router *httprouter.Router) {
	router.GET("/api/slots", slots.GetSlots)
	router.GET("/ws/quota", slots.HandleQuotaWS)
}

func AddRegisterRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/register", rl.Limit(middleware.Authenticate(register.SubmitRegistration)))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/registrations", middleware.Authenticate(middleware.AdminOnly(admin.ListRegistrations)))
	router.GET("/api/admin/registrations/:registrationId/card", middleware.Authenticate(middleware.AdminOnly(admin.PrintDonorCard)))
	router.GET("/api/admin/export", middleware.Authenticate(middleware.AdminOnly(admin.ExportCSV)))
	router.POST("/api/admin/reset", rl.Limit(middleware.Authenticate(middleware.AdminOnly(admin.ResetAll))))

	router.POST("/api/admin/slots", middleware.Authenticate(middleware.AdminOnly(slots.CreateSlot)))
	router.PUT("/api/admin/slots/:slotId", middleware.Authenticate(middleware.AdminOnly(slots.EditSlot)))
	router.POST("/api/admin/seed-slots", middleware.Authenticate(middleware.AdminOnly(slots.SeedSlots)))
	router.POST("/api/admin/slots/:slotId/banner", middleware.Authenticate(middleware.AdminOnly(slots.UploadBanner)))
}
