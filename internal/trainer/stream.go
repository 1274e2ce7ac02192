package trainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/infofit/internal/pose"
	"github.com/2beens/infofit/internal/scene"
	"github.com/2beens/infofit/internal/telemetry/tracing"
	"github.com/2beens/infofit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errStreamDone = errors.New("stream frame limit reached")

// handleStream pushes one pose per frame as server-sent events until the
// client goes away, or until the optional frame limit is reached.
func (handler *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "trainerHandler.stream")
	defer span.End()

	exercise, known := pose.ParseExercise(mux.Vars(r)["exercise"])
	span.SetAttributes(attribute.String("exercise", exercise.String()))

	query := r.URL.Query()
	fps, err := intParam(query.Get("fps"), handler.streamMaxFPS)
	if err != nil || fps <= 0 {
		http.Error(w, "invalid fps", http.StatusBadRequest)
		return
	}
	fps = min(fps, handler.streamMaxFPS)
	limit, err := intParam(query.Get("limit"), 0)
	if err != nil || limit < 0 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	figure, err := scene.Build(scene.NewGraph(), handler.blueprint)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("stream [%s], build figure: %s", exercise, err)
		http.Error(w, "build figure error", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	// the server write timeout would cut long streams short
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Warnf("stream [%s], clear write deadline: %s", exercise, err)
	}

	w.Header().Set("Content-Type", pkg.ContentType.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Errorf("stream [%s], flush headers: %s", exercise, err)
		return
	}

	handler.metricsManager.GaugeActiveStreams.Inc()
	defer handler.metricsManager.GaugeActiveStreams.Dec()

	loop := scene.NewLoop(scene.LoopParams{
		Exercise: exercise,
		Figure:   figure,
		FPS:      fps,
		Clock:    handler.clock,
	})

	sent := 0
	err = loop.Run(ctx, func(frame scene.Frame) error {
		payload, err := json.Marshal(frame)
		if err != nil {
			return fmt.Errorf("marshal frame: %w", err)
		}
		if _, err := fmt.Fprintf(w, "id: %d\nevent: pose\ndata: %s\n\n", frame.Index, payload); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		if err := rc.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}

		handler.countPose(exercise, known)
		sent++
		if limit > 0 && sent >= limit {
			return errStreamDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStreamDone) {
		span.SetStatus(codes.Error, err.Error())
		log.Debugf("stream [%s] ended: %s", exercise, err)
	}
	span.SetAttributes(attribute.Int("frames", sent))
}
