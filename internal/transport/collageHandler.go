package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/menta2k/vcollage"
	"github.com/menta2k/vcollage/internal/entity"
	"github.com/menta2k/vcollage/internal/service"
	"github.com/menta2k/vcollage/internal/utils"
	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/imageset"
	"github.com/menta2k/vcollage/pkg/processing"
)

var errBadRequest = errors.New("bad request")

func (h *CollageHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.service.CreateSession())
}

func (h *CollageHandler) GetSession(c *gin.Context) {
	sess, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *CollageHandler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollageHandler) ListImages(c *gin.Context) {
	images, err := h.service.ListImages(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *CollageHandler) UploadImages(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.defaults.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)})
			return
		}
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		writeError(c, fmt.Errorf("%w: no image files provided", errBadRequest))
		return
	}

	for _, file := range files {
		if !utils.IsImageFile(file.Filename) {
			writeError(c, fmt.Errorf("%w: unsupported file type: %s", errBadRequest, file.Filename))
			return
		}
	}

	images, err := h.service.AddImages(c.Param("id"), files)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"images": images})
}

func (h *CollageHandler) ClearImages(c *gin.Context) {
	if err := h.service.ClearImages(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollageHandler) RemoveImage(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	images, err := h.service.RemoveImage(c.Param("id"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *CollageHandler) MoveImage(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	dir, err := imageset.ParseDirection(c.Query("direction"))
	if err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	resp, err := h.service.MoveImage(c.Param("id"), index, dir)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Preview returns the PNG thumbnail, or 204 when there is nothing to show
func (h *CollageHandler) Preview(c *gin.Context) {
	params, err := h.params(c)
	if err != nil {
		writeError(c, err)
		return
	}

	frame, err := h.service.Preview(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		writeError(c, err)
		return
	}
	if frame.Empty() {
		c.Status(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := h.encoder.EncodeImage(&buf, frame.Thumb, processing.PNG, processing.DefaultSaveOptions()); err != nil {
		writeError(c, err)
		return
	}

	size := frame.Full.Bounds().Size()
	c.Header("X-Collage-Width", strconv.Itoa(size.X))
	c.Header("X-Collage-Height", strconv.Itoa(size.Y))
	c.Data(http.StatusOK, processing.PNG.ContentType(), buf.Bytes())
}

// Collage returns the full resolution collage as an attachment
func (h *CollageHandler) Collage(c *gin.Context) {
	params, err := h.params(c)
	if err != nil {
		writeError(c, err)
		return
	}

	format := h.defaults.Format
	if name := c.Query("format"); name != "" {
		if format, err = processing.ParseFormat(name); err != nil {
			writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	var buf bytes.Buffer
	if err := h.service.WriteCollage(c.Request.Context(), c.Param("id"), &buf, params, format); err != nil {
		writeError(c, err)
		return
	}

	filename := utils.GenerateOutputFilename("", "", string(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *CollageHandler) Palette(c *gin.Context) {
	colors := compositor.Palette()
	palette := make([]entity.PaletteEntry, len(colors))
	for i, color := range colors {
		palette[i] = entity.PaletteEntry{Name: color.String(), Hex: color.Hex()}
	}
	c.JSON(http.StatusOK, gin.H{
		"palette": palette,
		"default": h.defaults.Params.BorderColor.String(),
	})
}

// params reads width, border and color from the query, falling back to the
// configured defaults
func (h *CollageHandler) params(c *gin.Context) (compositor.Params, error) {
	p := h.defaults.Params

	if v := c.Query("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: width %q is not a valid number", compositor.ErrInvalidParameter, v)
		}
		p.Width = n
	}
	if v := c.Query("border"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: border %q is not a number", compositor.ErrInvalidParameter, v)
		}
		p.BorderWidth = n
	}
	if v := c.Query("color"); v != "" {
		color, err := compositor.ParseBorderColor(v)
		if err != nil {
			return p, err
		}
		p.BorderColor = color
	}

	return p, p.ValidateWithin(h.defaults.Limits)
}

func indexParam(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not a number", errBadRequest, c.Param("index"))
	}
	return index, nil
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, imageset.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, compositor.ErrInvalidParameter),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, vcollage.ErrNoImages):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
