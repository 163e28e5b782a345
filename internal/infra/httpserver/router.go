package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appai "github.com/bryanwahyu/resume-analyzer/internal/application/ai"
	appresume "github.com/bryanwahyu/resume-analyzer/internal/application/resume"
	domai "github.com/bryanwahyu/resume-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
	"github.com/bryanwahyu/resume-analyzer/internal/logger"
	"github.com/bryanwahyu/resume-analyzer/internal/middleware"
)

// multipart parts above this size spill to temp files
const multipartMemory = 8 << 20

// Options carries the optional collaborators of the router.
type Options struct {
	Log            *zap.Logger
	Metrics        *middleware.Metrics
	Limiter        *middleware.RateLimiter
	Checks         map[string]middleware.HealthChecker
	MaxUploadBytes int64
	Extractor      domain.Extractor
}

type Router struct {
	resumes   *appresume.Service
	aiSvc     *appai.Service
	extractor domain.Extractor
	log       *zap.Logger
}

func NewRouter(resumes *appresume.Service, aiSvc *appai.Service, opts Options) http.Handler {
	r := &Router{
		resumes:   resumes,
		aiSvc:     aiSvc,
		extractor: opts.Extractor,
		log:       logger.OrNop(opts.Log),
	}
	if r.extractor == nil {
		r.extractor = resumes.Extractor
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         3600,
	}))
	mux.Use(middleware.Logging(r.log))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	if opts.Limiter != nil {
		var onLimited func()
		if opts.Metrics != nil {
			onLimited = opts.Metrics.RateLimited
		}
		mux.Use(middleware.RateLimit(opts.Limiter, onLimited))
	}
	mux.Use(middleware.LimitBody(opts.MaxUploadBytes))

	// chi: semua middleware harus terdaftar sebelum route pertama
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	mux.Get("/health", middleware.HealthHandler(opts.Checks))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler(opts.Checks))

	mux.Get("/", r.wrap(r.handleHello))
	mux.Post("/login", r.wrap(r.handleLogin))
	mux.Post("/upload", r.wrap(r.handleUpload))
	mux.Get("/analyze/{resume_id}", r.wrap(r.handleAnalyze))
	mux.Get("/history/{user_id}", r.wrap(r.handleHistory))
	if aiSvc != nil {
		mux.Post("/review", r.wrap(r.handleReview))
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		case errors.As(err, &maxErr):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit)})
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "ai quota exceeded"})
		default:
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// GET /
func (r *Router) handleHello(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from Go Backend!"})
}

// POST /login
// Body: {"name": "<name>"}
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return invalid("malformed JSON body")
	}
	body.Name = middleware.SanitizeString(body.Name)
	if err := middleware.ValidateName(body.Name); err != nil {
		return invalid("%s", err.Error())
	}

	res, err := r.resumes.Login(body.Name)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /upload
// multipart: file=<document>, userId=<user id>
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	upload, err := readUpload(req)
	if err != nil {
		return err
	}
	userID := middleware.SanitizeString(req.FormValue("userId"))
	if userID != "" {
		if err := middleware.ValidateUserID(userID); err != nil {
			return invalid("%s", err.Error())
		}
	}

	res, err := r.resumes.Upload(req.Context(), appresume.UploadCommand{
		UserID:      userID,
		Filename:    upload.filename,
		ContentType: upload.contentType,
		Content:     upload.data,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /analyze/{resume_id}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "resume_id")
	if err := middleware.ValidateResumeID(id); err != nil {
		return invalid("%s", err.Error())
	}

	a, err := r.resumes.Get(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /history/{user_id}
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	userID := chi.URLParam(req, "user_id")
	if err := middleware.ValidateUserID(userID); err != nil {
		return invalid("%s", err.Error())
	}

	list, err := r.resumes.History(req.Context(), userID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /review
// multipart: file=<document>
func (r *Router) handleReview(w http.ResponseWriter, req *http.Request) error {
	upload, err := readUpload(req)
	if err != nil {
		return err
	}
	if len(upload.data) == 0 {
		return invalid("no file uploaded")
	}
	text, err := r.extractor.Extract(upload.data)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	review, err := r.aiSvc.Review(req.Context(), text)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, review)
}

type uploadedFile struct {
	filename    string
	contentType string
	data        []byte
}

// readUpload parses the multipart form. A missing file part is not an error;
// the caller decides.
func readUpload(req *http.Request) (uploadedFile, error) {
	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return uploadedFile{}, err
		}
		return uploadedFile{}, invalid("expected multipart/form-data body")
	}

	f, header, err := req.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return uploadedFile{}, nil
	}
	if err != nil {
		return uploadedFile{}, invalid("unreadable file part")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return uploadedFile{}, fmt.Errorf("read upload: %w", err)
	}
	return uploadedFile{
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
		data:        data,
	}, nil
}
