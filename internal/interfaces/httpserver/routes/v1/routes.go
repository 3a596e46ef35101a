package v1

import (
	"github.com/gin-gonic/gin"

	"memorylocker/internal/domain/auth"
	"memorylocker/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	gate     *auth.Gate
	session  gin.HandlerFunc
	author   gin.HandlerFunc
}

func NewRoutes(provider *handlers.Provider, gate *auth.Gate, session, author gin.HandlerFunc) *Routes {
	return &Routes{
		handlers: provider,
		gate:     gate,
		session:  session,
		author:   author,
	}
}

// Register attaches all v1 routes under the /v1 prefix. Reads require any
// live session; mutations require the author capability.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/auth/login", r.handlers.Auth.Login)
	group.POST("/auth/logout", r.handlers.Auth.Logout)

	reads := group.Group("", r.session)
	reads.GET("/photos", r.handlers.Journal.ListPhotos)
	reads.GET("/videos", r.handlers.Journal.ListVideos)
	reads.GET("/letters", r.handlers.Journal.ListLetters)
	reads.GET("/timeline", r.handlers.Journal.ListTimeline)
	reads.GET("/surprise", r.handlers.Journal.Surprise)

	writes := group.Group("", r.author)
	writes.POST("/photos", r.handlers.Journal.UploadPhoto)
	writes.DELETE("/photos/:id", r.handlers.Journal.DeletePhoto)
	writes.POST("/videos", r.handlers.Journal.UploadVideo)
	writes.DELETE("/videos/:id", r.handlers.Journal.DeleteVideo)
	writes.POST("/letters", r.handlers.Journal.CreateLetter)
	writes.DELETE("/letters/:id", r.handlers.Journal.DeleteLetter)
	writes.POST("/timeline", r.handlers.Journal.CreateEvent)
}
