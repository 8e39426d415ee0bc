package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/menta2k/vcollage"
	"github.com/menta2k/vcollage/internal/entity"
	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/imageset"
	"github.com/menta2k/vcollage/pkg/preview"
	"github.com/menta2k/vcollage/pkg/processing"
)

// ErrInvalidImage is returned for uploads that cannot be decoded
var ErrInvalidImage = errors.New("invalid image")

func newSessionID() string {
	return uuid.New().String()
}

func (s *collageService) CreateSession() entity.SessionResponse {
	now := s.now()
	sess := &session{
		maker:     vcollage.NewWithConfig(s.config),
		createdAt: now.UTC(),
		lastUsed:  now,
	}
	id := s.newID()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logSession(id).Info("session created")
	return entity.SessionResponse{ID: id, CreatedAt: sess.createdAt, Images: []entity.ImageInfo{}}
}

func (s *collageService) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	logSession(id).Info("session deleted")
	return nil
}

func (s *collageService) GetSession(id string) (entity.SessionResponse, error) {
	sess, err := s.session(id)
	if err != nil {
		return entity.SessionResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()

	return entity.SessionResponse{
		ID:        id,
		CreatedAt: sess.createdAt,
		Images:    imageInfos(sess.maker),
	}, nil
}

// AddImages decodes every upload before touching the session, so a bad file
// leaves the image list unchanged
func (s *collageService) AddImages(id string, files []*multipart.FileHeader) ([]entity.ImageInfo, error) {
	if _, err := s.session(id); err != nil {
		return nil, err
	}

	decoded := make([]image.Image, 0, len(files))
	for _, file := range files {
		img, err := s.decodeUpload(file)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, img)
	}

	var infos []entity.ImageInfo
	err := s.withSession(id, func(m *vcollage.Maker) error {
		for i, img := range decoded {
			m.AddImage(img, files[i].Filename)
		}
		infos = imageInfos(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logSession(id).WithField("images", len(infos)).Infof("added %d images", len(files))
	return infos, nil
}

func (s *collageService) decodeUpload(file *multipart.FileHeader) (image.Image, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	img, err := s.processor.DecodeImage(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImage, file.Filename, err)
	}
	return img, nil
}

func (s *collageService) AddImage(id, name string, r io.Reader) ([]entity.ImageInfo, error) {
	if _, err := s.session(id); err != nil {
		return nil, err
	}

	img, err := s.processor.DecodeImage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImage, name, err)
	}

	var infos []entity.ImageInfo
	err = s.withSession(id, func(m *vcollage.Maker) error {
		m.AddImage(img, name)
		infos = imageInfos(m)
		return nil
	})
	return infos, err
}

func (s *collageService) ListImages(id string) ([]entity.ImageInfo, error) {
	var infos []entity.ImageInfo
	err := s.withSession(id, func(m *vcollage.Maker) error {
		infos = imageInfos(m)
		return nil
	})
	return infos, err
}

func (s *collageService) RemoveImage(id string, index int) ([]entity.ImageInfo, error) {
	var infos []entity.ImageInfo
	err := s.withSession(id, func(m *vcollage.Maker) error {
		if err := m.Remove(index); err != nil {
			return err
		}
		infos = imageInfos(m)
		return nil
	})
	return infos, err
}

func (s *collageService) ClearImages(id string) error {
	return s.withSession(id, func(m *vcollage.Maker) error {
		m.Clear()
		return nil
	})
}

func (s *collageService) MoveImage(id string, index int, dir imageset.Direction) (entity.MoveResponse, error) {
	var resp entity.MoveResponse
	err := s.withSession(id, func(m *vcollage.Maker) error {
		newIndex, err := m.Move(index, dir)
		if err != nil {
			return err
		}
		resp = entity.MoveResponse{Index: newIndex, Images: imageInfos(m)}
		return nil
	})
	return resp, err
}

func (s *collageService) Preview(ctx context.Context, id string, p compositor.Params) (preview.Frame, error) {
	var frame preview.Frame
	err := s.withSession(id, func(m *vcollage.Maker) error {
		var err error
		frame, err = m.Preview(ctx, p)
		return err
	})
	return frame, err
}

func (s *collageService) WriteCollage(ctx context.Context, id string, w io.Writer, p compositor.Params, format processing.Format) error {
	return s.withSession(id, func(m *vcollage.Maker) error {
		return m.WriteTo(ctx, w, p, format)
	})
}

// ExpireSessions skips sessions that are busy; they are in use, not idle
func (s *collageService) ExpireSessions(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		idle := now.Sub(sess.lastUsed)
		sess.mu.Unlock()

		if idle > s.ttl {
			delete(s.sessions, id)
			expired++
			logSession(id).WithField("idle", idle.Round(time.Second)).Info("session expired")
		}
	}
	return expired
}
