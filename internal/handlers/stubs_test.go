package handlers

import (
	"context"
	"io"
	"time"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
	"github.com/vidtube/backend/internal/repositories"
)

type userStoreStub struct {
	users     map[string]models.User
	createErr error
	created   models.User
}

func (s *userStoreStub) Create(ctx context.Context, user models.User) error {
	_ = ctx
	s.created = user
	return s.createErr
}

func (s *userStoreStub) FindByID(ctx context.Context, id string) (models.User, error) {
	_ = ctx
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *userStoreStub) FindByEmail(ctx context.Context, email string) (models.User, error) {
	_ = ctx
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *userStoreStub) FindByUsername(ctx context.Context, username string) (models.User, error) {
	_ = ctx
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

type sessionManagerStub struct {
	tokens     models.SessionTokens
	issueErr   error
	refreshErr error
	revokeErr  error
	issuedFor  string
	refreshed  string
	revoked    string
}

func (s *sessionManagerStub) Issue(ctx context.Context, userID string) (models.SessionTokens, error) {
	_ = ctx
	s.issuedFor = userID
	return s.tokens, s.issueErr
}

func (s *sessionManagerStub) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	_ = ctx
	s.refreshed = refreshToken
	return s.tokens, s.refreshErr
}

func (s *sessionManagerStub) Revoke(ctx context.Context, refreshToken string) error {
	_ = ctx
	s.revoked = refreshToken
	return s.revokeErr
}

type videoStoreStub struct {
	videos    map[string]models.Video
	list      []models.VideoDetails
	listOpts  repositories.VideoListOptions
	stats     models.ChannelStats
	created   models.Video
	updated   models.Video
	deleted   string
	viewed    string
	createErr error
	updateErr error
	listErr   error
	statsErr  error
}

func (s *videoStoreStub) Create(ctx context.Context, video models.Video) error {
	_ = ctx
	s.created = video
	return s.createErr
}

func (s *videoStoreStub) FindByID(ctx context.Context, id string) (models.Video, error) {
	_ = ctx
	if v, ok := s.videos[id]; ok {
		return v, nil
	}
	return models.Video{}, repositories.ErrNotFound
}

func (s *videoStoreStub) UpdateDetails(ctx context.Context, id, title, description string, updatedAt time.Time) (models.Video, error) {
	_ = ctx
	if s.updateErr != nil {
		return models.Video{}, s.updateErr
	}
	v := s.videos[id]
	if title != "" {
		v.Title = title
	}
	if description != "" {
		v.Description = description
	}
	v.UpdatedAt = updatedAt
	s.updated = v
	return v, nil
}

func (s *videoStoreStub) SetPublished(ctx context.Context, id string, published bool, updatedAt time.Time) (models.Video, error) {
	_ = ctx
	if s.updateErr != nil {
		return models.Video{}, s.updateErr
	}
	v := s.videos[id]
	v.IsPublished = published
	v.UpdatedAt = updatedAt
	s.updated = v
	return v, nil
}

func (s *videoStoreStub) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.deleted = id
	return nil
}

func (s *videoStoreStub) IncrementViews(ctx context.Context, id string) error {
	_ = ctx
	s.viewed = id
	return nil
}

func (s *videoStoreStub) List(ctx context.Context, opts repositories.VideoListOptions) ([]models.VideoDetails, error) {
	_ = ctx
	s.listOpts = opts
	return s.list, s.listErr
}

func (s *videoStoreStub) ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error) {
	_ = ctx
	return s.stats, s.statsErr
}

type commentStoreStub struct {
	comments  map[string]models.Comment
	list      []models.CommentDetails
	created   models.Comment
	updated   models.Comment
	deleted   string
	createErr error
}

func (s *commentStoreStub) Create(ctx context.Context, comment models.Comment) error {
	_ = ctx
	s.created = comment
	return s.createErr
}

func (s *commentStoreStub) FindByID(ctx context.Context, id string) (models.Comment, error) {
	_ = ctx
	if c, ok := s.comments[id]; ok {
		return c, nil
	}
	return models.Comment{}, repositories.ErrNotFound
}

func (s *commentStoreStub) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Comment, error) {
	_ = ctx
	c := s.comments[id]
	c.Content = content
	c.UpdatedAt = updatedAt
	s.updated = c
	return c, nil
}

func (s *commentStoreStub) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.deleted = id
	return nil
}

func (s *commentStoreStub) ListByVideo(ctx context.Context, videoID, callerID string, page pipeline.Page) ([]models.CommentDetails, error) {
	_ = ctx
	return s.list, nil
}

type tweetStoreStub struct {
	tweets    map[string]models.Tweet
	list      []models.Tweet
	created   models.Tweet
	updated   models.Tweet
	deleted   string
	createErr error
}

func (s *tweetStoreStub) Create(ctx context.Context, tweet models.Tweet) error {
	_ = ctx
	s.created = tweet
	return s.createErr
}

func (s *tweetStoreStub) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	_ = ctx
	if tw, ok := s.tweets[id]; ok {
		return tw, nil
	}
	return models.Tweet{}, repositories.ErrNotFound
}

func (s *tweetStoreStub) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Tweet, error) {
	_ = ctx
	tw := s.tweets[id]
	tw.Content = content
	tw.UpdatedAt = updatedAt
	s.updated = tw
	return tw, nil
}

func (s *tweetStoreStub) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.deleted = id
	return nil
}

func (s *tweetStoreStub) ListByOwner(ctx context.Context, ownerID string, page pipeline.Page) ([]models.Tweet, error) {
	_ = ctx
	return s.list, nil
}

type likeStoreStub struct {
	created   bool
	toggleErr error
	toggled   models.Like
	liked     []models.VideoDetails
}

func (s *likeStoreStub) Toggle(ctx context.Context, like models.Like) (bool, error) {
	_ = ctx
	s.toggled = like
	return s.created, s.toggleErr
}

func (s *likeStoreStub) ListLikedVideos(ctx context.Context, callerID string, page pipeline.Page) ([]models.VideoDetails, error) {
	_ = ctx
	return s.liked, nil
}

type subscriptionStoreStub struct {
	created     bool
	toggleErr   error
	toggled     models.Subscription
	subscribers []models.PublicUser
	channels    []models.PublicUser
}

func (s *subscriptionStoreStub) Toggle(ctx context.Context, sub models.Subscription) (bool, error) {
	_ = ctx
	s.toggled = sub
	return s.created, s.toggleErr
}

func (s *subscriptionStoreStub) ListSubscribers(ctx context.Context, channelID string, page pipeline.Page) ([]models.PublicUser, error) {
	_ = ctx
	return s.subscribers, nil
}

func (s *subscriptionStoreStub) ListSubscribedChannels(ctx context.Context, subscriberID string, page pipeline.Page) ([]models.PublicUser, error) {
	_ = ctx
	return s.channels, nil
}

type playlistStoreStub struct {
	playlists   map[string]models.Playlist
	details     models.PlaylistDetails
	list        []models.PlaylistDetails
	created     models.Playlist
	deleted     string
	addedTo     string
	removedFrom string
	addErr      error
	createErr   error
}

func (s *playlistStoreStub) Create(ctx context.Context, playlist models.Playlist) error {
	_ = ctx
	s.created = playlist
	return s.createErr
}

func (s *playlistStoreStub) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	_ = ctx
	if p, ok := s.playlists[id]; ok {
		return p, nil
	}
	return models.Playlist{}, repositories.ErrNotFound
}

func (s *playlistStoreStub) UpdateDetails(ctx context.Context, id, name, description string, updatedAt time.Time) (models.Playlist, error) {
	_ = ctx
	p := s.playlists[id]
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	p.UpdatedAt = updatedAt
	return p, nil
}

func (s *playlistStoreStub) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.deleted = id
	return nil
}

func (s *playlistStoreStub) AddVideo(ctx context.Context, playlistID, videoID string, updatedAt time.Time) error {
	_ = ctx
	s.addedTo = playlistID
	return s.addErr
}

func (s *playlistStoreStub) RemoveVideo(ctx context.Context, playlistID, videoID string, updatedAt time.Time) error {
	_ = ctx
	s.removedFrom = playlistID
	return nil
}

func (s *playlistStoreStub) GetDetails(ctx context.Context, playlistID, callerID string) (models.PlaylistDetails, error) {
	_ = ctx
	if _, ok := s.playlists[playlistID]; !ok {
		return models.PlaylistDetails{}, repositories.ErrNotFound
	}
	return s.details, nil
}

func (s *playlistStoreStub) ListByOwner(ctx context.Context, ownerID, callerID string, page pipeline.Page) ([]models.PlaylistDetails, error) {
	_ = ctx
	return s.list, nil
}

type mediaStoreStub struct {
	saved []string
	url   string
	err   error
}

func (s *mediaStoreStub) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	_ = ctx
	_, _ = io.Copy(io.Discard, r)
	s.saved = append(s.saved, name)
	if s.err != nil {
		return "", s.err
	}
	if s.url != "" {
		return s.url, nil
	}
	return "https://cdn.example.com/" + name, nil
}

type proberStub struct {
	duration float64
	err      error
}

func (p proberStub) Duration(ctx context.Context, path string) (float64, error) {
	_ = ctx
	return p.duration, p.err
}
