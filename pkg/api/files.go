package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/handlebook"
	"github.com/FavorLabs/ipsex/pkg/jsonhttp"
	"github.com/gorilla/mux"
)

type fileUploadResponse struct {
	Key    string `json:"key"`
	Handle string `json:"handle"`
}

// respondFileError maps the error kinds of the file service to status codes.
func respondFileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, files.ErrInvalidInput):
		jsonhttp.BadRequest(w, err)
	case errors.Is(err, files.ErrNoOrderFound):
		jsonhttp.NotFound(w, err)
	case errors.Is(err, files.ErrLedgerSubmission),
		errors.Is(err, files.ErrLedgerQuery),
		errors.Is(err, files.ErrStorageUpload),
		errors.Is(err, files.ErrStorageDownload),
		errors.Is(err, files.ErrStorageDelete):
		jsonhttp.BadGateway(w, err)
	default:
		jsonhttp.InternalServerError(w, err)
	}
}

func parseMiners(values []string) ([]files.AccountID, error) {
	var miners []files.AccountID
	for _, v := range values {
		for _, m := range strings.Split(v, ",") {
			if m == "" {
				continue
			}
			pub, err := crypto.ParseAccountID(m)
			if err != nil {
				return nil, err
			}
			miners = append(miners, files.AccountID(pub))
		}
	}
	return miners, nil
}

func (s *server) fileUploadHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]
	query := r.URL.Query()

	miners, err := parseMiners(query["miner"])
	if err != nil {
		s.logger.Debugf("upload: parse miners: %v", err)
		s.logger.Error("upload: invalid miner")
		jsonhttp.BadRequest(w, "invalid miner")
		return
	}
	days, err := strconv.ParseUint(query.Get("days"), 10, 64)
	if err != nil {
		s.logger.Debugf("upload: parse days %q: %v", query.Get("days"), err)
		s.logger.Error("upload: invalid days")
		jsonhttp.BadRequest(w, "invalid days")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.o.MaxUploadSize))
	if err != nil {
		if jsonhttp.HandleBodyReadError(err, w) {
			return
		}
		s.logger.Debugf("upload: read body: %v", err)
		s.logger.Error("upload: read body")
		jsonhttp.InternalServerError(w, "cannot read data")
		return
	}

	handle, err := s.files.AddFile(r.Context(), []byte(key), data, miners, days)
	if err != nil {
		s.logger.Debugf("upload: add file %q: %v", key, err)
		s.logger.Errorf("upload: add file %q", key)
		respondFileError(w, err)
		return
	}

	if s.book != nil {
		err = s.book.Put(handlebook.Entry{
			Key:         key,
			Handle:      handle,
			Fingerprint: s.files.Fingerprint(data).String(),
			Length:      uint64(len(data)),
			Owner:       s.o.Owner,
			Created:     time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warningf("upload: record handle of %q: %v", key, err)
		}
	}

	jsonhttp.Created(w, fileUploadResponse{Key: key, Handle: handle})
}

func (s *server) fileDownloadHandler(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["id"]

	data, err := s.files.GetFile(r.Context(), handle)
	if err != nil {
		s.logger.Debugf("download: get file %s: %v", handle, err)
		s.logger.Errorf("download: get file %s", handle)
		respondFileError(w, err)
		return
	}

	w.Header().Set(contentTypeHeader, octetStream)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) fileDeleteHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]

	if err := s.files.DeleteFile(r.Context(), []byte(key)); err != nil {
		s.logger.Debugf("delete: delete file %q: %v", key, err)
		s.logger.Errorf("delete: delete file %q", key)
		respondFileError(w, err)
		return
	}

	if s.book != nil {
		if err := s.book.Delete(s.o.Owner, key); err != nil {
			s.logger.Warningf("delete: drop handle of %q: %v", key, err)
		}
	}
	jsonhttp.OK(w, nil)
}

func (s *server) keysHandler(w http.ResponseWriter, r *http.Request) {
	if s.book == nil {
		jsonhttp.NotFound(w, "handle book disabled")
		return
	}
	entries := make([]handlebook.Entry, 0)
	err := s.book.Iterate(s.o.Owner, func(e handlebook.Entry) (bool, error) {
		entries = append(entries, e)
		return false, nil
	})
	if err != nil {
		s.logger.Errorf("keys: iterate handle book: %v", err)
		jsonhttp.InternalServerError(w, err)
		return
	}
	jsonhttp.OK(w, entries)
}

func (s *server) keyHandler(w http.ResponseWriter, r *http.Request) {
	if s.book == nil {
		jsonhttp.NotFound(w, "handle book disabled")
		return
	}
	key := mux.Vars(r)["key"]
	e, err := s.book.Get(s.o.Owner, key)
	if err != nil {
		if errors.Is(err, handlebook.ErrNotFound) {
			jsonhttp.NotFound(w, nil)
			return
		}
		s.logger.Errorf("keys: get %q: %v", key, err)
		jsonhttp.InternalServerError(w, err)
		return
	}
	jsonhttp.OK(w, e)
}
