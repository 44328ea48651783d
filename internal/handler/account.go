package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/service"
)

type AccountHandler struct {
	authService    *service.AuthService
	userService    *service.UserService
	profileService *service.ProfileService
	fileService    *service.FileService
	maxUpload      int64
}

func NewAccountHandler(
	authService *service.AuthService,
	userService *service.UserService,
	profileService *service.ProfileService,
	fileService *service.FileService,
	maxUpload int64,
) *AccountHandler {
	return &AccountHandler{
		authService:    authService,
		userService:    userService,
		profileService: profileService,
		fileService:    fileService,
		maxUpload:      maxUpload,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *AccountHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	var in nameRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateName(r.Context(), ctxkeys.UserID(r.Context()), in.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AccountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	header, err := h.formFile(w, r, "avatar")
	if err != nil {
		fail(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateAvatar(r.Context(), ctxkeys.UserID(r.Context()), header)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type mediaResponse struct {
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// UploadMedia stores a thought attachment. The returned URL goes into the
// thought's image_url, video_url or audio_url.
func (h *AccountHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	header, err := h.formFile(w, r, "file")
	if err != nil {
		fail(w, r, err)
		return
	}

	kind := r.FormValue("kind")
	file, err := h.fileService.Upload(r.Context(), ctxkeys.UserID(r.Context()), kind, header)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mediaResponse{
		URL:      file.URL,
		Kind:     file.Type,
		MimeType: file.MimeType,
		Size:     file.Size,
	})
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in passwordRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	err := h.userService.UpdatePassword(ctxkeys.UserID(r.Context()), in.CurrentPassword, in.NewPassword)
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var in deleteAccountRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	err := h.userService.DeleteAccount(r.Context(), ctxkeys.UserID(r.Context()), in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) formFile(w http.ResponseWriter, r *http.Request, field string) (*multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))

	err := r.ParseMultipartForm(10 << 20)
	if err != nil {
		return nil, newError(http.StatusBadRequest, CodeBadRequest, "Failed to parse form")
	}

	_, header, err := r.FormFile(field)
	if err != nil {
		return nil, newError(http.StatusBadRequest, CodeBadRequest, "No file uploaded")
	}
	return header, nil
}
