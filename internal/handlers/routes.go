package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Every
// route except registration, login, refresh, and the health probe sits
// behind the authentication middleware.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies, verifier auth.TokenVerifier) {
	health := HealthHandler{}
	users := UserHandler{Users: deps.Users, Sessions: deps.Sessions, Media: deps.Media, LoginLimiter: deps.LoginLimiter}
	videos := VideoHandler{Videos: deps.Videos, Media: deps.Media, Prober: deps.Prober}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos}
	tweets := TweetHandler{Tweets: deps.Tweets, Users: deps.Users}
	likes := LikeHandler{Likes: deps.Likes, Videos: deps.Videos, Comments: deps.Comments, Tweets: deps.Tweets}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos, Users: deps.Users}
	dashboard := DashboardHandler{Videos: deps.Videos}

	guard := auth.RequireAuth(verifier)
	protected := func(pattern string, handler http.HandlerFunc) {
		mux.Handle(pattern, guard(handler))
	}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/refresh", users.Refresh)
	protected("POST /api/v1/users/logout", users.Logout)
	protected("GET /api/v1/users/me", users.Me)

	protected("GET /api/v1/videos", videos.List)
	protected("POST /api/v1/videos", videos.Create)
	protected("GET /api/v1/videos/{videoId}", videos.Get)
	protected("PATCH /api/v1/videos/{videoId}", videos.Update)
	protected("DELETE /api/v1/videos/{videoId}", videos.Delete)
	protected("PATCH /api/v1/videos/toggle/{videoId}", videos.TogglePublish)

	protected("GET /api/v1/comments/{videoId}", comments.ListByVideo)
	protected("POST /api/v1/comments/{videoId}", comments.Create)
	protected("PATCH /api/v1/comments/{commentId}", comments.Update)
	protected("DELETE /api/v1/comments/{commentId}", comments.Delete)

	protected("POST /api/v1/tweets", tweets.Create)
	protected("GET /api/v1/tweets/user/{userId}", tweets.ListByUser)
	protected("PATCH /api/v1/tweets/{tweetId}", tweets.Update)
	protected("DELETE /api/v1/tweets/{tweetId}", tweets.Delete)

	protected("POST /api/v1/likes/toggle/v/{videoId}", likes.ToggleVideo)
	protected("POST /api/v1/likes/toggle/c/{commentId}", likes.ToggleComment)
	protected("POST /api/v1/likes/toggle/t/{tweetId}", likes.ToggleTweet)
	protected("GET /api/v1/likes/videos", likes.ListLikedVideos)

	protected("POST /api/v1/subscriptions/c/{channelId}", subscriptions.Toggle)
	protected("GET /api/v1/subscriptions/c/{channelId}", subscriptions.ListSubscribers)
	protected("GET /api/v1/subscriptions/u", subscriptions.ListSubscribedChannels)

	protected("POST /api/v1/playlists", playlists.Create)
	protected("GET /api/v1/playlists/{playlistId}", playlists.Get)
	protected("PATCH /api/v1/playlists/{playlistId}", playlists.Update)
	protected("DELETE /api/v1/playlists/{playlistId}", playlists.Delete)
	protected("GET /api/v1/playlists/user/{userId}", playlists.ListByUser)
	protected("PATCH /api/v1/playlists/add/{videoId}/{playlistId}", playlists.AddVideo)
	protected("PATCH /api/v1/playlists/remove/{videoId}/{playlistId}", playlists.RemoveVideo)

	protected("GET /api/v1/dashboard/stats", dashboard.Stats)
	protected("GET /api/v1/dashboard/videos", dashboard.ListVideos)
}
