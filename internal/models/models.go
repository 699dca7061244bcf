package models

import "time"

// User represents an account within the VidTube platform. Password always
// holds the bcrypt hash, never the plaintext.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Avatar    string    `bson:"avatar" json:"avatar"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the projection of a User safe to embed in responses.
type PublicUser struct {
	ID       string `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username"`
	FullName string `bson:"fullName" json:"fullName"`
	Avatar   string `bson:"avatar" json:"avatar"`
}

// Public strips a User down to its embeddable profile fields.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// Video is an uploaded video and its playback metadata. An unpublished
// video is visible only to its owner.
type Video struct {
	ID          string    `bson:"_id" json:"id"`
	Owner       string    `bson:"owner" json:"owner"`
	VideoFile   string    `bson:"videoFile" json:"videoFile"`
	Thumbnail   string    `bson:"thumbnail" json:"thumbnail"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Duration    float64   `bson:"duration" json:"duration"`
	Views       int64     `bson:"views" json:"views"`
	IsPublished bool      `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// VideoDetails is a Video joined with its owner profile and like state.
type VideoDetails struct {
	Video     `bson:",inline"`
	OwnerInfo PublicUser `bson:"ownerInfo" json:"ownerInfo"`
	LikeCount int64      `bson:"likeCount" json:"likeCount"`
	IsLiked   bool       `bson:"isLiked" json:"isLiked"`
}

// Comment is a remark left on a video.
type Comment struct {
	ID        string    `bson:"_id" json:"id"`
	Video     string    `bson:"video" json:"video"`
	Owner     string    `bson:"owner" json:"owner"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CommentDetails is a Comment joined with its author and like state.
type CommentDetails struct {
	Comment   `bson:",inline"`
	OwnerInfo PublicUser `bson:"ownerInfo" json:"ownerInfo"`
	LikeCount int64      `bson:"likeCount" json:"likeCount"`
	IsLiked   bool       `bson:"isLiked" json:"isLiked"`
}

// Tweet is a short text update posted to a channel.
type Tweet struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Like records that a user liked exactly one of a video, comment, or
// tweet. Its existence is the liked state; there is no update.
type Like struct {
	ID        string    `bson:"_id" json:"id"`
	LikedBy   string    `bson:"likedBy" json:"likedBy"`
	Video     string    `bson:"video,omitempty" json:"video,omitempty"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Tweet     string    `bson:"tweet,omitempty" json:"tweet,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Subscription records that Subscriber follows Channel.
type Subscription struct {
	ID         string    `bson:"_id" json:"id"`
	Subscriber string    `bson:"subscriber" json:"subscriber"`
	Channel    string    `bson:"channel" json:"channel"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Playlist is an owner-curated list of video references. Videos holds no
// duplicates; adds use set semantics.
type Playlist struct {
	ID          string    `bson:"_id" json:"id"`
	Owner       string    `bson:"owner" json:"owner"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Videos      []string  `bson:"videos" json:"videos"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PlaylistDetails is a Playlist with its video references resolved to the
// subset of videos visible to the requesting caller.
type PlaylistDetails struct {
	Playlist     `bson:",inline"`
	VideoDetails []Video `bson:"videoDetails" json:"videoDetails"`
}

// ChannelStats aggregates a channel's dashboard counters.
type ChannelStats struct {
	TotalVideos      int64 `bson:"totalVideos" json:"totalVideos"`
	TotalViews       int64 `bson:"totalViews" json:"totalViews"`
	TotalSubscribers int64 `bson:"totalSubscribers" json:"totalSubscribers"`
	TotalLikes       int64 `bson:"totalLikes" json:"totalLikes"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
