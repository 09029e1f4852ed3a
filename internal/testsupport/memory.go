// Package testsupport содержит in-memory реализации портов для тестов usecase- и HTTP-слоя.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// Store — потокобезопасное хранилище в памяти, повторяющее ограничения схемы PostgreSQL:
// уникальные username/email и не более одной неотклонённой заявки на пару.
type Store struct {
	mu       sync.Mutex
	clock    time.Time
	users    map[uuid.UUID]domain.User
	profiles map[uuid.UUID]domain.Profile // по user_id
	requests map[uuid.UUID]domain.ConnectionRequest
	posts    map[uuid.UUID]domain.Post
	comments map[uuid.UUID]domain.Comment

	// Err, если задан, возвращается всеми методами
	Err error
}

func NewStore() *Store {
	return &Store{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[uuid.UUID]domain.User{},
		profiles: map[uuid.UUID]domain.Profile{},
		requests: map[uuid.UUID]domain.ConnectionRequest{},
		posts:    map[uuid.UUID]domain.Post{},
		comments: map[uuid.UUID]domain.Comment{},
	}
}

// tick возвращает строго возрастающее время, чтобы порядок выборок был детерминированным
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// --- users ---

func (s *Store) CreateUserWithProfile(_ context.Context, user *domain.User, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("insert user: %w", domain.ErrConflict)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.UserID = user.ID
	profile.CreatedAt, profile.UpdatedAt = now, now

	s.users[user.ID] = *user
	s.profiles[user.ID] = *profile
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) GetUserByLogin(_ context.Context, username, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateUser(_ context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	for otherID, other := range s.users {
		if otherID == id {
			continue
		}
		if (upd.Username != nil && other.Username == *upd.Username) || (upd.Email != nil && other.Email == *upd.Email) {
			return nil, fmt.Errorf("update user: %w", domain.ErrConflict)
		}
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	u.UpdatedAt = s.tick()
	s.users[id] = u
	return &u, nil
}

func (s *Store) UpdateProfilePicture(_ context.Context, id uuid.UUID, pictureURL string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.ProfilePicture = pictureURL
	s.users[id] = u
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// --- profiles ---

func (s *Store) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) ReplaceProfile(_ context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	p.Bio, p.CurrentPost, p.Location = upd.Bio, upd.CurrentPost, upd.Location
	p.Education = make([]domain.Education, len(upd.Education))
	for i, e := range upd.Education {
		e.ID, e.ProfileID, e.Position = uuid.New(), p.ID, i
		p.Education[i] = e
	}
	p.PastWork = make([]domain.WorkHistory, len(upd.PastWork))
	for i, w := range upd.PastWork {
		w.ID, w.ProfileID, w.Position = uuid.New(), p.ID, i
		p.PastWork[i] = w
	}
	p.UpdatedAt = s.tick()
	s.profiles[userID] = p
	return &p, nil
}

// --- connection requests ---

func (s *Store) CreateRequest(_ context.Context, req *domain.ConnectionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, r := range s.requests {
		if r.Status != domain.ConnectionRejected && samePair(r, req.SenderID, req.ReceiverID) {
			return fmt.Errorf("insert connection request: %w", domain.ErrConflict)
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := s.tick()
	req.CreatedAt, req.UpdatedAt = now, now
	s.requests[req.ID] = *req
	return nil
}

func (s *Store) GetRequestByID(_ context.Context, id uuid.UUID) (*domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) FindActiveRequestBetween(_ context.Context, a, b uuid.UUID) (*domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, r := range s.requests {
		if r.Status != domain.ConnectionRejected && samePair(r, a, b) {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateRequestStatus(_ context.Context, id uuid.UUID, from, to domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.requests[id]
	if !ok || r.Status != from {
		return nil, nil
	}
	r.Status = to
	r.UpdatedAt = s.tick()
	s.requests[id] = r
	return &r, nil
}

func (s *Store) ListSentRequests(_ context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	return s.listRequests(func(r domain.ConnectionRequest) bool { return r.SenderID == userID })
}

func (s *Store) ListReceivedRequests(_ context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	return s.listRequests(func(r domain.ConnectionRequest) bool { return r.ReceiverID == userID })
}

func (s *Store) listRequests(match func(domain.ConnectionRequest) bool) ([]domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.ConnectionRequest{}
	for _, r := range s.requests {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func samePair(r domain.ConnectionRequest, a, b uuid.UUID) bool {
	return (r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a)
}

// --- posts ---

func (s *Store) CreatePost(_ context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := s.tick()
	post.CreatedAt, post.UpdatedAt = now, now
	s.posts[post.ID] = *post
	return nil
}

func (s *Store) GetPostByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	s.withAuthor(&p)
	return &p, nil
}

func (s *Store) ListPosts(_ context.Context) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	posts := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		s.withAuthor(&p)
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (s *Store) withAuthor(p *domain.Post) {
	if u, ok := s.users[p.UserID]; ok {
		p.AuthorName, p.AuthorUsername, p.AuthorPicture = u.Name, u.Username, u.ProfilePicture
	}
}

func (s *Store) DeletePost(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("delete post %s: %w", id, domain.ErrNotFound)
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *Store) IncrementLikes(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	p.Likes++
	s.posts[id] = p
	s.withAuthor(&p)
	return &p, nil
}

func (s *Store) CreateComment(_ context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = s.tick()
	s.comments[comment.ID] = *comment
	return nil
}

func (s *Store) GetCommentByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) ListComments(_ context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			if u, ok := s.users[c.UserID]; ok {
				c.AuthorName, c.AuthorUsername = u.Name, u.Username
			}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteComment(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("delete comment %s: %w", id, domain.ErrNotFound)
	}
	delete(s.comments, id)
	return nil
}

// Files — файловое хранилище в памяти
type Files struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewFiles() *Files {
	return &Files{Objects: map[string][]byte{}}
}

func (f *Files) UploadFile(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = buf.Bytes()
	return "http://files.test/" + key, nil
}

func (f *Files) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(f.Objects, key)
	return nil
}

// Publisher запоминает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	Events []payloads.ConnectionEvent
	Err    error
}

func (p *Publisher) PublishConnectionEvent(_ context.Context, event payloads.ConnectionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Published возвращает копию списка событий
func (p *Publisher) Published() []payloads.ConnectionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payloads.ConnectionEvent(nil), p.Events...)
}
