package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alumni-connect/internal/delivery/http/middleware"
	"alumni-connect/internal/delivery/http/validation"
	"alumni-connect/internal/domain/event"
	"alumni-connect/internal/domain/matching"
	"alumni-connect/internal/domain/mentorship"
	"alumni-connect/internal/pkg/jwt"
	"alumni-connect/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(register func(r fiber.Router), auth *middleware.AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	api := app.Group("/api/v1", auth.Middleware())
	register(api)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, header ...string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return resp.StatusCode, env
}

type fakeMatching struct {
	got usecase.MatchInput
	res []matching.Result
	err error
}

func (f *fakeMatching) FindTopMentors(_ context.Context, in usecase.MatchInput) ([]matching.Result, error) {
	f.got = in
	return f.res, f.err
}

type fakeEvents struct {
	userID string
	res    usecase.AttendanceResult
	ev     event.Event
	err    error
}

func (f *fakeEvents) GetEvent(context.Context, string) (event.Event, error) { return f.ev, f.err }

func (f *fakeEvents) Join(_ context.Context, _ string, userID string) (usecase.AttendanceResult, error) {
	f.userID = userID
	return f.res, f.err
}

func (f *fakeEvents) Cancel(_ context.Context, _ string, userID string) (usecase.AttendanceResult, error) {
	f.userID = userID
	return f.res, f.err
}

type fakeMentorship struct {
	got         usecase.MentorshipRequestInput
	list        []mentorship.Request
	err         error
	respondedID string
	respondedBy string
}

func (f *fakeMentorship) RequestMentorship(_ context.Context, in usecase.MentorshipRequestInput) (mentorship.Request, error) {
	f.got = in
	if f.err != nil {
		return mentorship.Request{}, f.err
	}
	return mentorship.Request{ID: "r1", StudentID: in.StudentID, MentorID: in.MentorID, Status: mentorship.StatusPending, RequestedAt: time.Now()}, nil
}

func (f *fakeMentorship) ListForMentor(context.Context, string) ([]mentorship.Request, error) {
	return f.list, f.err
}

func (f *fakeMentorship) Respond(_ context.Context, requestID, mentorID string, status mentorship.Status) (mentorship.Request, error) {
	f.respondedID, f.respondedBy = requestID, mentorID
	if f.err != nil {
		return mentorship.Request{}, f.err
	}
	now := time.Now()
	return mentorship.Request{ID: requestID, MentorID: mentorID, Status: status, RespondedAt: &now}, nil
}

func TestMatchHandler_Success(t *testing.T) {
	uc := &fakeMatching{res: []matching.Result{{UID: "m1", Name: "Amy", Score: 15, Skills: []string{"go"}, CommonSkills: []string{"go"}}}}
	h := NewMatchHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/match", `{"skills":["Go"],"filters":{"company":"acme"},"topN":5}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.got.TopN != 5 || uc.got.Filters.Company != "acme" || len(uc.got.Skills) != 1 {
		t.Fatalf("unexpected input: %+v", uc.got)
	}

	var data struct {
		Matches []struct {
			UID          string   `json:"uid"`
			Score        int      `json:"score"`
			CommonSkills []string `json:"commonSkills"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Matches) != 1 || data.Matches[0].UID != "m1" || data.Matches[0].Score != 15 || len(data.Matches[0].CommonSkills) != 1 {
		t.Fatalf("unexpected matches: %s", env.Data)
	}
	if strings.Contains(string(env.Data), "common_skills") || !strings.Contains(string(env.Data), `"jobTitle"`) {
		t.Fatalf("expected camelCase match keys: %s", env.Data)
	}
}

func TestMatchHandler_EmptyResultIsArray(t *testing.T) {
	h := NewMatchHandler(&fakeMatching{}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	_, env := do(t, app, http.MethodPost, "/api/v1/match", `{"skills":["cobol"]}`)
	if string(env.Data) != `{"matches":[]}` {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestMatchHandler_ValidationFailure(t *testing.T) {
	h := NewMatchHandler(&fakeMatching{}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/match", `{"skills":["go"],"topN":-3}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if !strings.Contains(string(env.Data), "topN") {
		t.Fatalf("expected topN field error, got %s", env.Data)
	}
}

func TestMatchHandler_StoreUnavailable(t *testing.T) {
	h := NewMatchHandler(&fakeMatching{err: errors.Join(usecase.ErrStoreUnavailable, errors.New("dial"))}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/match", `{"skills":["go"]}`)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if string(env.Data) != `{"retryable":true}` {
		t.Fatalf("expected retryable payload, got %s", env.Data)
	}
}

func TestEventHandler_JoinWaitlisted(t *testing.T) {
	uc := &fakeEvents{res: usecase.AttendanceResult{
		EventID:          "e1",
		Outcome:          event.OutcomeWaitlisted,
		WaitlistPosition: 1,
		RegisteredCount:  2,
		WaitlistCount:    1,
	}}
	h := NewEventHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/events/e1/join", `{"user_id":"u3"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.userID != "u3" {
		t.Fatalf("expected user u3, got %q", uc.userID)
	}
	if env.Message != event.OutcomeWaitlisted.Message() {
		t.Fatalf("unexpected message %q", env.Message)
	}

	var data map[string]any
	_ = json.Unmarshal(env.Data, &data)
	if data["outcome"] != "waitlisted" || data["waitlist_position"] != float64(1) {
		t.Fatalf("unexpected data: %s", env.Data)
	}
	if _, ok := data["promoted_user_id"]; ok {
		t.Fatalf("promoted_user_id must be omitted: %s", env.Data)
	}
}

func TestEventHandler_CancelConflictIsRetryable(t *testing.T) {
	h := NewEventHandler(&fakeEvents{err: usecase.ErrConcurrencyConflict}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/events/e1/cancel", `{"user_id":"u1"}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if string(env.Data) != `{"retryable":true}` {
		t.Fatalf("expected retryable payload, got %s", env.Data)
	}
}

func TestEventHandler_MissingUser(t *testing.T) {
	h := NewEventHandler(&fakeEvents{}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, _ := do(t, app, http.MethodPost, "/api/v1/events/e1/join", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestEventHandler_GetNotFound(t *testing.T) {
	h := NewEventHandler(&fakeEvents{err: usecase.ErrEventNotFound}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodGet, "/api/v1/events/nope", "")
	if status != fiber.StatusNotFound || env.Message != "Event not found" {
		t.Fatalf("unexpected response %d %q", status, env.Message)
	}
}

func TestEventHandler_GetSpotsRemaining(t *testing.T) {
	capacity := 3
	h := NewEventHandler(&fakeEvents{ev: event.Event{ID: "e1", Capacity: &capacity, Registrants: []string{"a"}}}, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	_, env := do(t, app, http.MethodGet, "/api/v1/events/e1", "")
	var data map[string]any
	_ = json.Unmarshal(env.Data, &data)
	if data["spots_remaining"] != float64(2) || data["registered_count"] != float64(1) {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestEventHandler_TokenSubject(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour)
	tok, err := svc.GenerateAccessToken("u1", "")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	bearer := "Bearer " + tok

	uc := &fakeEvents{res: usecase.AttendanceResult{Outcome: event.OutcomeRegistered}}
	h := NewEventHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, middleware.NewAuthMiddleware(svc))

	if status, _ := do(t, app, http.MethodPost, "/api/v1/events/e1/join", `{"user_id":"u1"}`); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	if status, _ := do(t, app, http.MethodPost, "/api/v1/events/e1/join", "", fiber.HeaderAuthorization, bearer); status != fiber.StatusOK || uc.userID != "u1" {
		t.Fatalf("expected token subject to be used, got %d %q", status, uc.userID)
	}

	if status, _ := do(t, app, http.MethodPost, "/api/v1/events/e1/join", `{"user_id":"u2"}`, fiber.HeaderAuthorization, bearer); status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for mismatched user, got %d", status)
	}
}

func TestMentorshipHandler_Create(t *testing.T) {
	uc := &fakeMentorship{}
	h := NewMentorshipHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/mentorship/requests", `{"student_id":"s1","mentor_id":"m1","message":"hi"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if uc.got.StudentID != "s1" || uc.got.MentorID != "m1" || uc.got.Message != "hi" {
		t.Fatalf("unexpected input: %+v", uc.got)
	}
	if !strings.Contains(string(env.Data), `"status":"pending"`) {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestMentorshipHandler_CreateErrors(t *testing.T) {
	cases := []struct {
		body string
		err  error
		want int
	}{
		{`{"mentor_id":"m1"}`, nil, fiber.StatusBadRequest},
		{`{"student_id":"s1","mentor_id":"m1"}`, usecase.ErrMentorNotFound, fiber.StatusNotFound},
		{`{"student_id":"s1","mentor_id":"m1"}`, usecase.ErrDuplicateRequest, fiber.StatusConflict},
		{`not json`, nil, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		h := NewMentorshipHandler(&fakeMentorship{err: tc.err}, validation.New())
		app := newTestApp(h.RegisterRoutes, nil)
		if status, _ := do(t, app, http.MethodPost, "/api/v1/mentorship/requests", tc.body); status != tc.want {
			t.Fatalf("body %s: expected %d, got %d", tc.body, tc.want, status)
		}
	}
}

func TestMentorshipHandler_List(t *testing.T) {
	uc := &fakeMentorship{list: []mentorship.Request{{ID: "r2"}, {ID: "r1"}}}
	h := NewMentorshipHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodGet, "/api/v1/mentorship/requests?mentor_id=m1", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var data struct {
		Requests []struct {
			ID string `json:"id"`
		} `json:"requests"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if len(data.Requests) != 2 || data.Requests[0].ID != "r2" {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestMentorshipHandler_CreateTrimsBeforeTokenCheck(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour)
	tok, err := svc.GenerateAccessToken("s1", "")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	h := NewMentorshipHandler(&fakeMentorship{}, validation.New())
	app := newTestApp(h.RegisterRoutes, middleware.NewAuthMiddleware(svc))

	status, _ := do(t, app, http.MethodPost, "/api/v1/mentorship/requests", `{"student_id":" s1 ","mentor_id":"m1"}`, fiber.HeaderAuthorization, "Bearer "+tok)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 for padded student_id, got %d", status)
	}
}

func TestMentorshipHandler_Respond(t *testing.T) {
	uc := &fakeMentorship{}
	h := NewMentorshipHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, nil)

	status, env := do(t, app, http.MethodPatch, "/api/v1/mentorship/requests/r1", `{"mentor_id":"m1","status":"accepted"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.respondedID != "r1" || uc.respondedBy != "m1" {
		t.Fatalf("unexpected call %q by %q", uc.respondedID, uc.respondedBy)
	}
	if !strings.Contains(string(env.Data), `"status":"accepted"`) || !strings.Contains(string(env.Data), `"responded_at"`) {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestMentorshipHandler_RespondErrors(t *testing.T) {
	cases := []struct {
		body string
		err  error
		want int
	}{
		{`{"mentor_id":"m1","status":"pending"}`, nil, fiber.StatusBadRequest},
		{`{"mentor_id":"m1"}`, nil, fiber.StatusBadRequest},
		{`{"mentor_id":"m1","status":"rejected"}`, usecase.ErrRequestNotFound, fiber.StatusNotFound},
		{`{"mentor_id":"m1","status":"rejected"}`, usecase.ErrForbidden, fiber.StatusForbidden},
		{`{"mentor_id":"m1","status":"rejected"}`, usecase.ErrRequestAnswered, fiber.StatusConflict},
	}
	for _, tc := range cases {
		h := NewMentorshipHandler(&fakeMentorship{err: tc.err}, validation.New())
		app := newTestApp(h.RegisterRoutes, nil)
		if status, _ := do(t, app, http.MethodPatch, "/api/v1/mentorship/requests/r1", tc.body); status != tc.want {
			t.Fatalf("body %s err %v: expected %d, got %d", tc.body, tc.err, tc.want, status)
		}
	}
}

func TestMentorshipHandler_RespondUsesTokenSubject(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour)
	tok, err := svc.GenerateAccessToken("m1", "")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	bearer := "Bearer " + tok

	uc := &fakeMentorship{}
	h := NewMentorshipHandler(uc, validation.New())
	app := newTestApp(h.RegisterRoutes, middleware.NewAuthMiddleware(svc))

	if status, _ := do(t, app, http.MethodPatch, "/api/v1/mentorship/requests/r1", `{"status":"rejected"}`, fiber.HeaderAuthorization, bearer); status != fiber.StatusOK || uc.respondedBy != "m1" {
		t.Fatalf("expected token subject to answer, got %d %q", status, uc.respondedBy)
	}
	if status, _ := do(t, app, http.MethodPatch, "/api/v1/mentorship/requests/r1", `{"mentor_id":"m2","status":"rejected"}`, fiber.HeaderAuthorization, bearer); status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for another mentor, got %d", status)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	app := fiber.New()
	NewHealthHandler(map[string]Pinger{"postgres": ok}).RegisterRoutes(app)
	if status, _ := do(t, app, http.MethodGet, "/health", ""); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	app = fiber.New()
	NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).RegisterRoutes(app)
	status, env := do(t, app, http.MethodGet, "/health", "")
	if status != fiber.StatusServiceUnavailable || !strings.Contains(string(env.Data), `"redis":"down"`) {
		t.Fatalf("unexpected response %d %s", status, env.Data)
	}
}
