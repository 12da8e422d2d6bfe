package reviews

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"MiniReviews/pkg/kit"
)

// addReviewReq accepts either alias for the text and the author. Pointers
// distinguish an absent field from a zero value.
type addReviewReq struct {
	Text    *string      `json:"text"`
	Comment *string      `json:"comment"`
	Rating  *ratingValue `json:"rating"`
	User    *string      `json:"user"`
	Author  *string      `json:"author"`
}

type addReviewResp struct {
	Message string `json:"message"`
}

// ratingValue accepts any JSON number with no fractional part, so 4 and 4.0
// are the same rating.
type ratingValue int

func (v *ratingValue) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("rating: %s is not an integer", b)
	}
	*v = ratingValue(f)
	return nil
}

// decodeAddReview reads the body. A JSON array carries none of the known
// fields and yields the defaults, the way an empty object does.
func decodeAddReview(w http.ResponseWriter, r *http.Request) (addReviewReq, error) {
	var raw json.RawMessage
	if err := kit.DecodeJSON(w, r, maxBodyBytes, &raw); err != nil {
		return addReviewReq{}, err
	}

	var req addReviewReq
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '[' {
		return req, nil
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return addReviewReq{}, err
	}
	return req, nil
}

func (req addReviewReq) review(now time.Time) Review {
	rating := DefaultRating
	if req.Rating != nil {
		rating = int(*req.Rating)
	}

	user := firstNonEmpty(req.User, req.Author)
	if user == "" {
		user = DefaultUser
	}

	return NewReview(firstNonEmpty(req.Text, req.Comment), rating, user, now)
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
