package trainer

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/infofit/internal/middleware"
	"github.com/2beens/infofit/internal/page"
	"github.com/2beens/infofit/internal/pose"
	"github.com/2beens/infofit/internal/scene"
	"github.com/2beens/infofit/internal/telemetry/metrics"
	"github.com/2beens/infofit/internal/telemetry/tracing"
	"github.com/2beens/infofit/internal/tips"
	"github.com/2beens/infofit/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	pageCacheKeyAll    = "page::all"
	pageCacheKeyPrefix = "page::"

	defaultFramesTo = 1.0
)

type Handler struct {
	renderer       *page.Renderer
	tipsManager    *tips.Manager
	blueprint      scene.Blueprint
	pageCache      *freecache.Cache
	pageCacheTTL   int
	metricsManager *metrics.Manager
	streamMaxFPS   int
	versionInfo    string
	clock          func() time.Time
}

type HandlerParams struct {
	Renderer       *page.Renderer
	TipsManager    *tips.Manager
	Blueprint      scene.Blueprint
	PageCache      *freecache.Cache
	PageCacheTTL   int // seconds, 0 keeps pages until evicted
	MetricsManager *metrics.Manager
	StreamMaxFPS   int
	VersionInfo    string
}

func NewHandler(params HandlerParams) *Handler {
	streamMaxFPS := params.StreamMaxFPS
	if streamMaxFPS <= 0 || streamMaxFPS > scene.MaxFPS {
		streamMaxFPS = scene.MaxFPS
	}
	return &Handler{
		renderer:       params.Renderer,
		tipsManager:    params.TipsManager,
		blueprint:      params.Blueprint,
		pageCache:      params.PageCache,
		pageCacheTTL:   params.PageCacheTTL,
		metricsManager: params.MetricsManager,
		streamMaxFPS:   streamMaxFPS,
		versionInfo:    params.VersionInfo,
		clock:          time.Now,
	}
}

// SetupRoutes registers the trainer routes. A nil rateLimiter leaves the pose api unlimited.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handlePage).Methods("GET").Name("page")
	mainRouter.HandleFunc("/exercises", handler.handleExercises).Methods("GET", "OPTIONS").Name("exercises")
	mainRouter.HandleFunc("/exercise/{name}", handler.handleExercisePage).Methods("GET", "OPTIONS").Name("exercise")
	mainRouter.HandleFunc("/blueprint", handler.handleBlueprint).Methods("GET", "OPTIONS").Name("blueprint")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")

	poseRouter := mainRouter.PathPrefix("/pose").Subrouter()
	poseRouter.HandleFunc("/{exercise}", handler.handlePose).Methods("GET", "OPTIONS").Name("pose")
	poseRouter.HandleFunc("/{exercise}/frames", handler.handleFrames).Methods("GET", "OPTIONS").Name("pose-frames")
	poseRouter.HandleFunc("/{exercise}/stream", handler.handleStream).Methods("GET", "OPTIONS").Name("pose-stream")

	if rateLimiter != nil {
		poseRouter.Use(middleware.RateLimit(rateLimiter, "pose", allowedPerMin, handler.metricsManager))
	}
}

func (handler *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.page")
	defer span.End()

	handler.writePage(w, pageCacheKeyAll, pose.Exercises())
}

func (handler *Handler) handleExercisePage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.exercisePage")
	defer span.End()

	name := mux.Vars(r)["name"]
	exercise, ok := pose.ParseExercise(name)
	if !ok {
		span.SetStatus(codes.Error, "unknown exercise")
		http.NotFound(w, r)
		return
	}
	span.SetAttributes(attribute.String("exercise", exercise.String()))

	handler.writePage(w, pageCacheKeyPrefix+exercise.Slug(), []pose.Exercise{exercise})
}

func (handler *Handler) writePage(w http.ResponseWriter, cacheKey string, exercises []pose.Exercise) {
	if handler.pageCache != nil {
		if cached, err := handler.pageCache.Get([]byte(cacheKey)); err == nil {
			handler.metricsManager.CounterPageCacheHits.Inc()
			pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, cached)
			return
		} else if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("page cache get [%s]: %s", cacheKey, err)
		}
	}
	handler.metricsManager.CounterPageCacheMisses.Inc()

	html, err := handler.renderer.RenderBytes(exercises)
	if err != nil {
		log.Errorf("render page [%s]: %s", cacheKey, err)
		http.Error(w, "render page error", http.StatusInternalServerError)
		return
	}

	if handler.pageCache != nil {
		if err := handler.pageCache.Set([]byte(cacheKey), html, handler.pageCacheTTL); err != nil {
			log.Warnf("page cache set [%s]: %s", cacheKey, err)
		}
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, html)
}

type exerciseInfo struct {
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
	Tips   []string     `json:"tips"`
	Motion *pose.Motion `json:"motion"`
}

func (handler *Handler) handleExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.exercises")
	defer span.End()

	exercises := pose.Exercises()
	infos := make([]exerciseInfo, 0, len(exercises))
	for _, e := range exercises {
		info := exerciseInfo{
			Name: e.String(),
			Slug: e.Slug(),
			Tips: handler.tipsManager.Tips(e),
		}
		if m, ok := pose.MotionFor(e); ok {
			info.Motion = &m
		}
		infos = append(infos, info)
	}

	pkg.WriteJSONResponseOK(w, infos)
}

func (handler *Handler) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.blueprint")
	defer span.End()

	pkg.WriteJSONResponseOK(w, handler.blueprint)
}

type poseResponse struct {
	Exercise pose.Exercise `json:"exercise"`
	Known    bool          `json:"known"`
	Time     float64       `json:"t"`
	Pose     pose.Pose     `json:"pose"`
}

func (handler *Handler) handlePose(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.pose")
	defer span.End()

	exercise, known := pose.ParseExercise(mux.Vars(r)["exercise"])
	span.SetAttributes(attribute.String("exercise", exercise.String()))

	t := wallClockSeconds(handler.clock())
	if tParam := r.URL.Query().Get("t"); tParam != "" {
		parsed, err := parseFinite(tParam)
		if err != nil {
			span.SetStatus(codes.Error, fmt.Sprintf("parse t: %s", err))
			http.Error(w, "invalid t: must be a finite number of seconds", http.StatusBadRequest)
			return
		}
		t = parsed
	}
	span.SetAttributes(attribute.Float64("t", t))

	p := pose.Compute(exercise, t)
	handler.countPose(exercise, known)

	pkg.WriteJSONResponseOK(w, poseResponse{
		Exercise: exercise,
		Known:    known,
		Time:     t,
		Pose:     p,
	})
}

type framesResponse struct {
	Exercise pose.Exercise    `json:"exercise"`
	FPS      int              `json:"fps"`
	Frames   []scene.Keyframe `json:"frames"`
}

func (handler *Handler) handleFrames(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.frames")
	defer span.End()

	exercise, known := pose.ParseExercise(mux.Vars(r)["exercise"])
	span.SetAttributes(attribute.String("exercise", exercise.String()))

	query := r.URL.Query()
	from, err := floatParam(query.Get("from"), 0)
	if err != nil {
		http.Error(w, "invalid from", http.StatusBadRequest)
		return
	}
	to, err := floatParam(query.Get("to"), defaultFramesTo)
	if err != nil {
		http.Error(w, "invalid to", http.StatusBadRequest)
		return
	}
	fps, err := intParam(query.Get("fps"), scene.DefaultFPS)
	if err != nil {
		http.Error(w, "invalid fps", http.StatusBadRequest)
		return
	}

	keyframes, err := scene.Sample(handler.blueprint, exercise, from, to, fps)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, scene.ErrInvalidRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("sample frames [%s]: %s", exercise, err)
		http.Error(w, "sample frames error", http.StatusInternalServerError)
		return
	}
	handler.countPose(exercise, known)

	pkg.WriteJSONResponseOK(w, framesResponse{
		Exercise: exercise,
		FPS:      fps,
		Frames:   keyframes,
	})
}

func (handler *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) countPose(exercise pose.Exercise, known bool) {
	label := "unknown"
	if known {
		label = exercise.String()
	}
	handler.metricsManager.CounterPoseComputations.WithLabelValues(label).Inc()
}

func wallClockSeconds(now time.Time) float64 {
	return float64(now.UnixMilli()) * 0.001
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %s", s)
	}
	return v, nil
}

func floatParam(s string, fallback float64) (float64, error) {
	if s == "" {
		return fallback, nil
	}
	return parseFinite(s)
}

func intParam(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}
