package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/vcollage"
	"github.com/menta2k/vcollage/internal/entity"
	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/imageset"
	"github.com/menta2k/vcollage/pkg/preview"
	"github.com/menta2k/vcollage/pkg/processing"
)

var ErrSessionNotFound = errors.New("session not found")

type CollageService interface {
	CreateSession() entity.SessionResponse
	DeleteSession(id string) error
	GetSession(id string) (entity.SessionResponse, error)

	AddImages(id string, files []*multipart.FileHeader) ([]entity.ImageInfo, error)
	AddImage(id, name string, r io.Reader) ([]entity.ImageInfo, error)
	ListImages(id string) ([]entity.ImageInfo, error)
	RemoveImage(id string, index int) ([]entity.ImageInfo, error)
	ClearImages(id string) error
	MoveImage(id string, index int, dir imageset.Direction) (entity.MoveResponse, error)

	Preview(ctx context.Context, id string, p compositor.Params) (preview.Frame, error)
	WriteCollage(ctx context.Context, id string, w io.Writer, p compositor.Params, format processing.Format) error

	// ExpireSessions deletes sessions idle since before now minus the TTL
	// and returns how many were removed
	ExpireSessions(now time.Time) int
}

type session struct {
	mu        sync.Mutex
	maker     *vcollage.Maker
	createdAt time.Time
	lastUsed  time.Time
}

type collageService struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	config    vcollage.Config
	ttl       time.Duration
	processor *processing.Processor
	newID     func() string
	now       func() time.Time
}

// NewCollageService creates the session store. Sessions idle for longer
// than ttl are removed by ExpireSessions; a zero ttl never expires them.
func NewCollageService(config vcollage.Config, ttl time.Duration) CollageService {
	return &collageService{
		sessions:  make(map[string]*session),
		config:    config,
		ttl:       ttl,
		processor: processing.NewProcessor(),
		newID:     newSessionID,
		now:       time.Now,
	}
}

func (s *collageService) session(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// withSession runs fn holding the session lock
func (s *collageService) withSession(id string, fn func(m *vcollage.Maker) error) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()
	return fn(sess.maker)
}

func imageInfos(m *vcollage.Maker) []entity.ImageInfo {
	entries := m.Entries()
	infos := make([]entity.ImageInfo, len(entries))
	for i, e := range entries {
		size := e.Size()
		infos[i] = entity.ImageInfo{
			Index:  i,
			Label:  e.Label(),
			Width:  size.X,
			Height: size.Y,
		}
	}
	return infos
}

func logSession(id string) *logrus.Entry {
	return logrus.WithField("session", id)
}
