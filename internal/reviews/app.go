package reviews

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniReviews/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 1 * time.Second

	msgReviewAdded = "Review added"
)

type Server struct {
	Store   Store
	Events  Publisher
	Metrics *Metrics
	Log     *zap.Logger

	// Now stamps new reviews; nil means time.Now.
	Now func() time.Time
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Route("/reviews", func(rr chi.Router) {
		rr.Get("/{productId}", s.handleList)
		rr.Post("/{productId}", s.handleAdd)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	productID := productIDParam(r)

	list, err := s.Store.List(r.Context(), productID)
	if err != nil {
		s.logger().Error("list reviews failed", zap.Error(err), zap.String("product_id", productID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	productID := productIDParam(r)

	req, err := decodeAddReview(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	rv := req.review(s.now())

	if err := s.Store.Append(r.Context(), productID, rv); err != nil {
		if isTimeoutErr(err) {
			kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
			return
		}
		s.logger().Error("append review failed", zap.Error(err), zap.String("product_id", productID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.Metrics.reviewAdded()
	s.publish(r.Context(), productID, rv)

	kit.WriteJSON(w, http.StatusCreated, addReviewResp{Message: msgReviewAdded})
}

// publish is best effort: the review is already stored, so a broker failure
// is logged and never reaches the client.
func (s *Server) publish(ctx context.Context, productID string, rv Review) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, productID, rv); err != nil {
		s.logger().Warn("publish review event failed", zap.Error(err), zap.String("product_id", productID))
	}
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// productIDParam decodes the id exactly once. chi matches on RawPath only
// when the request carried one; otherwise the param is already decoded.
func productIDParam(r *http.Request) string {
	raw := chi.URLParam(r, "productId")
	if r.URL.RawPath == "" {
		return raw
	}
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
