package leetcode_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/leetboard/internal/domain/leetcode"
	. "github.com/smartystreets/goconvey/convey"
)

func graphqlServer(handler func(username string) (int, bool)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]string `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		count, ok := handler(req.Variables["username"])
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_, _ = w.Write([]byte(`{"data":{"matchedUser":null}}`))
			return
		}
		resp := map[string]any{
			"data": map[string]any{
				"matchedUser": map[string]any{
					"submitStats": map[string]any{
						"acSubmissionNum": []map[string]any{
							{"difficulty": "Easy", "count": count / 2},
							{"difficulty": "All", "count": count},
						},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Fetch(t *testing.T) {
	Convey("Given a GraphQL endpoint that knows one user", t, func() {
		srv := graphqlServer(func(username string) (int, bool) {
			if username == "alice" {
				return 42, true
			}
			return 0, false
		})
		defer srv.Close()

		client := leetcode.NewClient(leetcode.WithURL(srv.URL))
		ctx := context.Background()

		Convey("When fetching a known handle", func() {
			score, err := client.Fetch(ctx, "alice")

			Convey("Then the All-difficulty count is returned", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 42)
			})
		})

		Convey("When fetching an unknown handle", func() {
			_, err := client.Fetch(ctx, "nobody")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, leetcode.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given an endpoint that responds with a server error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := leetcode.NewClient(leetcode.WithURL(srv.URL))

		Convey("When fetching", func() {
			_, err := client.Fetch(context.Background(), "alice")

			Convey("Then the failure is a lookup error, not not-found", func() {
				So(errors.Is(err, leetcode.ErrLookup), ShouldBeTrue)
				So(errors.Is(err, leetcode.ErrNotFound), ShouldBeFalse)
			})
		})
	})

	Convey("Given an endpoint slower than the caller's deadline", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"data":{"matchedUser":null}}`))
		}))
		defer srv.Close()

		client := leetcode.NewClient(leetcode.WithURL(srv.URL))

		Convey("When fetching with a short per-call timeout", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := client.Fetch(ctx, "alice")

			Convey("Then the call fails instead of hanging", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
