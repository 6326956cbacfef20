package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AidasDir/cub-api-en-docker/internal/handlers"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	r.Get("/", handlers.Root)
	r.Get("/api/checker", handlers.Checker)
	r.Get("/api/", handlers.APIRoot)
	r.Get("/api/auth/clear-old-token", handlers.ClearOldToken)

	// Device pairing: code redemption is the authentication
	r.Post("/api/device/add", handlers.DeviceAdd)

	// Magic Link exchange: authenticated by the DID assertion, not a session
	r.Post("/api/token/generate", handlers.GenerateToken)

	// Public lookups
	r.Get("/api/users/find", handlers.UsersFind)
	r.Get("/api/reactions/get/{id}", handlers.ReactionsGet)

	// Everything below requires a session token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate)

		r.Get("/api/device/generate-code", handlers.GenerateCode)

		r.Get("/api/bookmarks/all", handlers.BookmarksAll)
		r.Post("/api/bookmarks/add", handlers.BookmarksAdd)
		r.Post("/api/bookmarks/remove", handlers.BookmarksRemove)

		r.Post("/api/card/season", handlers.CardSeason)
		r.Post("/api/card/subscribed", handlers.CardSubscribed)
		r.Post("/api/card/translations", handlers.CardTranslations)
		r.Post("/api/card/unsubscribe", handlers.CardUnsubscribe)

		r.Get("/api/notice/all", handlers.NoticeAll)
		r.Get("/api/notice/clear", handlers.NoticeClear)

		r.Get("/api/notifications/all", handlers.NotificationsAll)
		r.Post("/api/notifications/add", handlers.NotificationsAdd)
		r.Post("/api/notifications/remove", handlers.NotificationsRemove)
		r.Post("/api/notifications/status", handlers.NotificationsStatus)

		r.Get("/api/timeline/all", handlers.TimelineAll)

		r.Get("/api/profiles/all", handlers.ProfilesAll)
		r.Post("/api/profiles/change", handlers.ProfilesChange)
		r.Post("/api/profiles/create", handlers.ProfilesCreate)
		r.Post("/api/profiles/remove", handlers.ProfilesRemove)
		r.Post("/api/profiles/active", handlers.ProfilesActive)

		r.Get("/api/reactions/add/{content_id}/{type}", handlers.ReactionsAdd)

		r.Get("/api/users/get", handlers.UsersGet)
		r.Post("/api/users/give", handlers.UsersGive)
	})
}
