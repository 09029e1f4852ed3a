package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/GoArmGo/ConnectApp/internal/domain"
)

// errUploadBusy — все слоты загрузки заняты до отмены запроса
var errUploadBusy = errors.New("too many concurrent uploads")

// Uploads ограничивает размер и число одновременных multipart-загрузок
type Uploads struct {
	limiter  chan struct{}
	maxBytes int64
}

func NewUploads(limiter chan struct{}, maxBytes int64) *Uploads {
	return &Uploads{limiter: limiter, maxBytes: maxBytes}
}

// acquire занимает слот загрузки; release нужно вызвать по завершении
func (u *Uploads) acquire(r *http.Request) (release func(), err error) {
	select {
	case u.limiter <- struct{}{}:
		return func() { <-u.limiter }, nil
	case <-r.Context().Done():
		return nil, errUploadBusy
	}
}

// parse разбирает multipart-форму с ограничением размера тела
func (u *Uploads) parse(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrValidation, u.maxBytes)
		}
		return fmt.Errorf("%w: malformed multipart form", domain.ErrValidation)
	}
	return nil
}

// file возвращает файл из поля формы или nil, если поле не передано.
// Вызывающий закрывает domain.Upload.Body через close.
func (u *Uploads) file(r *http.Request, field string) (upload *domain.Upload, closeFn func(), err error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot read %s", domain.ErrValidation, field)
	}
	return &domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// cleanup удаляет временные файлы формы
func (u *Uploads) cleanup(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
