package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

const (
	testAuthHeader = "X-Api-Key"
	testSecret     = "s3cret"
)

type mockAuthService struct {
	AuthorizeFunc func(secret string) error
}

func (m *mockAuthService) Authorize(secret string) error {
	return m.AuthorizeFunc(secret)
}

type mockMemberService struct {
	GetRecordFunc  func(ctx context.Context, name string) (*models.MemberRecord, error)
	AppendGoalFunc func(ctx context.Context, name string, goal models.Goal) (*models.MemberRecord, error)
	AppendNoteFunc func(ctx context.Context, name string, note models.Note) (*models.MemberRecord, error)
}

func (m *mockMemberService) GetRecord(ctx context.Context, name string) (*models.MemberRecord, error) {
	return m.GetRecordFunc(ctx, name)
}

func (m *mockMemberService) AppendGoal(ctx context.Context, name string, goal models.Goal) (*models.MemberRecord, error) {
	return m.AppendGoalFunc(ctx, name, goal)
}

func (m *mockMemberService) AppendNote(ctx context.Context, name string, note models.Note) (*models.MemberRecord, error) {
	return m.AppendNoteFunc(ctx, name, note)
}

type mockSyncMonitor struct {
	failures []persist.Result
	pending  int
	cleared  bool
}

func (m *mockSyncMonitor) Failures() []persist.Result { return m.failures }
func (m *mockSyncMonitor) ClearFailures()             { m.cleared = true }
func (m *mockSyncMonitor) Pending() int               { return m.pending }

type testServer struct {
	router  *gin.Engine
	board   *board.Board
	members *mockMemberService
	sync    *mockSyncMonitor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seq int
	b := board.New(zerolog.Nop(), nil, nil,
		board.WithClock(func() time.Time {
			return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		}),
		board.WithIDGenerator(func() (string, error) {
			seq++
			return fmt.Sprintf("id-%03d", seq), nil
		}),
	)

	auth := &mockAuthService{AuthorizeFunc: func(secret string) error {
		if secret != testSecret {
			return services.ErrUnauthorized
		}
		return nil
	}}
	members := &mockMemberService{}
	syncMonitor := &mockSyncMonitor{}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), New(zerolog.Nop(), b, syncMonitor, auth, members, testAuthHeader))

	return &testServer{router: router, board: b, members: members, sync: syncMonitor}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(testAuthHeader, testSecret)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		secret     string
		wantStatus int
	}{
		{name: "valid secret", secret: testSecret, wantStatus: http.StatusCreated},
		{name: "wrong secret", secret: "nope", wantStatus: http.StatusUnauthorized},
		{name: "no secret", secret: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString(`{"title":"Write report"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.secret != "" {
				req.Header.Set(testAuthHeader, tt.secret)
			}

			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	// Reads stay open.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /tasks status = %d, want 200", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Write report", "tags": []string{"q1"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	created := decode[taskResponse](t, w)
	if created.ID != "id-001" || created.Status != string(models.StatusUncategorized) || created.Priority != "medium" {
		t.Errorf("created = %+v", created)
	}

	w = s.do(t, http.MethodPost, "/tasks/id-001/assign", map[string]any{"bucket": "today", "category": "focus"})
	if w.Code != http.StatusOK {
		t.Fatalf("assign status = %d: %s", w.Code, w.Body)
	}
	if got := decode[taskResponse](t, w); got.Status != "today" || got.Category != "focus" {
		t.Errorf("assigned = %+v", got)
	}

	w = s.do(t, http.MethodPost, "/tasks/id-001/timer/start", nil)
	if w.Code != http.StatusOK || !decode[taskResponse](t, w).Tracking {
		t.Fatalf("timer start status = %d: %s", w.Code, w.Body)
	}

	w = s.do(t, http.MethodPost, "/tasks/id-001/status", map[string]any{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("status change = %d: %s", w.Code, w.Body)
	}
	completed := decode[taskResponse](t, w)
	if completed.CompletedAt == nil || completed.Tracking {
		t.Errorf("completed = %+v, want completed_at set and timer stopped", completed)
	}

	w = s.do(t, http.MethodPatch, "/tasks/id-001", map[string]any{"title": "Write final report"})
	if w.Code != http.StatusOK || decode[taskResponse](t, w).Title != "Write final report" {
		t.Fatalf("update status = %d: %s", w.Code, w.Body)
	}

	w = s.do(t, http.MethodGet, "/tasks?q=final", nil)
	if got := decode[[]taskResponse](t, w); len(got) != 1 {
		t.Errorf("search returned %d tasks, want 1", len(got))
	}

	w = s.do(t, http.MethodDelete, "/tasks/id-001", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = s.do(t, http.MethodGet, "/tasks/id-001", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestTaskErrors(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Call plumber"})

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{name: "missing title", method: http.MethodPost, path: "/tasks", body: map[string]any{}, wantStatus: http.StatusBadRequest},
		{name: "blank title", method: http.MethodPost, path: "/tasks", body: map[string]any{"title": "  "}, wantStatus: http.StatusBadRequest},
		{name: "unknown priority", method: http.MethodPost, path: "/tasks", body: map[string]any{"title": "x", "priority": "urgent"}, wantStatus: http.StatusBadRequest},
		{name: "unknown task", method: http.MethodPost, path: "/tasks/nope/assign", body: map[string]any{"bucket": "today"}, wantStatus: http.StatusNotFound},
		{name: "delegate without person", method: http.MethodPost, path: "/tasks/id-001/status", body: map[string]any{"status": "delegated"}, wantStatus: http.StatusConflict},
		{name: "malformed body", method: http.MethodPost, path: "/tasks/id-001/assign", body: "bucket", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body)
			}
		})
	}
}

func TestDragAndDrop(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Review PR"})

	w := s.do(t, http.MethodPost, "/drag/zones", map[string]any{"id": "category:today:standing"})
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", w.Code, w.Body)
	}
	if got := decode[dropTargetResponse](t, w); got.Kind != "category" || got.ID != "standing" || got.Column != "today" {
		t.Errorf("target = %+v", got)
	}

	w = s.do(t, http.MethodPost, "/drag/end", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("end without drag status = %d, want 409", w.Code)
	}

	w = s.do(t, http.MethodPost, "/drag/start", map[string]any{"task_id": "id-001"})
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body)
	}
	w = s.do(t, http.MethodPost, "/drag/start", map[string]any{"task_id": "id-001"})
	if w.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", w.Code)
	}

	w = s.do(t, http.MethodPost, "/drag/over", map[string]any{"zone_id": "category:today:standing"})
	if w.Code != http.StatusOK {
		t.Fatalf("over status = %d: %s", w.Code, w.Body)
	}

	w = s.do(t, http.MethodGet, "/drag", nil)
	state := decode[dragStateResponse](t, w)
	if !state.Active || state.Hover == nil || state.Hover.Raw != "category:today:standing" {
		t.Errorf("drag state = %+v", state)
	}

	w = s.do(t, http.MethodPost, "/drag/end", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("end status = %d: %s", w.Code, w.Body)
	}
	drop := decode[dropResponse](t, w)
	if !drop.Applied || drop.Task == nil || drop.Task.Status != "today" || drop.Task.Category != "standing" {
		t.Errorf("drop = %+v", drop)
	}

	w = s.do(t, http.MethodGet, "/drag", nil)
	if decode[dragStateResponse](t, w).Active {
		t.Error("drag still active after drop")
	}
}

func TestDragMoveWithRect(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Review PR"})

	rect := func(x float64) map[string]float64 {
		return map[string]float64{"x": x, "y": 0, "width": 100, "height": 100}
	}
	s.do(t, http.MethodPost, "/drag/zones", map[string]any{"id": "column:later", "rect": rect(0)})
	s.do(t, http.MethodPost, "/drag/zones", map[string]any{"id": "column:completed", "rect": rect(200)})
	s.do(t, http.MethodPost, "/drag/start", map[string]any{"task_id": "id-001"})

	w := s.do(t, http.MethodPost, "/drag/over", map[string]any{"rect": rect(190)})
	state := decode[dragStateResponse](t, w)
	if state.Hover == nil || state.Hover.Raw != "column:completed" {
		t.Fatalf("hover = %+v, want column:completed", state.Hover)
	}

	w = s.do(t, http.MethodPost, "/drag/cancel", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("cancel status = %d", w.Code)
	}
	if task, _ := s.board.Task("id-001"); task.Status != models.StatusUncategorized {
		t.Errorf("cancelled drag moved the task to %s", task.Status)
	}
}

func TestViews(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/people", map[string]any{"name": "Dana"})
	s.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Chase invoice", "status": "delegated", "person_id": "id-001"})

	w := s.do(t, http.MethodGet, "/views", nil)
	if got := decode[viewsResponse](t, w); got.Default != models.ViewToday || len(got.Views) != 2 {
		t.Errorf("views = %+v", got)
	}

	w = s.do(t, http.MethodGet, "/views/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("view status = %d: %s", w.Code, w.Body)
	}
	groups := decode[[]columnGroupResponse](t, w)
	var lane *subBucketResponse
	for _, g := range groups {
		if g.Column.ID == models.StatusDelegated && len(g.Buckets) > 0 {
			lane = &g.Buckets[0]
		}
	}
	if lane == nil || lane.Key != "id-001" || lane.Label != "Dana" || len(lane.Tasks) != 1 {
		t.Errorf("follow-up lane = %+v", lane)
	}

	w = s.do(t, http.MethodGet, "/views/month", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown view status = %d, want 404", w.Code)
	}

	w = s.do(t, http.MethodPost, "/views/week/columns", map[string]any{"id": "review", "title": "Review"})
	if w.Code != http.StatusCreated {
		t.Errorf("add column status = %d: %s", w.Code, w.Body)
	}
}

func TestMemberRecords(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/people", map[string]any{"name": "Dana"})

	s.members.GetRecordFunc = func(_ context.Context, name string) (*models.MemberRecord, error) {
		if name != "Dana" {
			return nil, services.ErrMemberNotFound
		}
		return &models.MemberRecord{Name: name}, nil
	}
	var goalsFor []string
	s.members.AppendGoalFunc = func(_ context.Context, name string, goal models.Goal) (*models.MemberRecord, error) {
		goalsFor = append(goalsFor, name)
		return &models.MemberRecord{Name: name, Goals: []models.Goal{goal}}, nil
	}
	s.members.AppendNoteFunc = func(context.Context, string, models.Note) (*models.MemberRecord, error) {
		return nil, fmt.Errorf("%w: note body is empty", services.ErrInvalidMemberEntry)
	}

	if w := s.do(t, http.MethodGet, "/members/Dana/record", nil); w.Code != http.StatusOK {
		t.Errorf("get record status = %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/members/Eve/record", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", w.Code)
	}

	w := s.do(t, http.MethodPost, "/members/Dana/goals", map[string]any{"title": "Lead a release"})
	if w.Code != http.StatusCreated {
		t.Fatalf("append goal status = %d: %s", w.Code, w.Body)
	}
	if got := decode[models.MemberRecord](t, w); len(got.Goals) != 1 || got.Goals[0].Title != "Lead a release" {
		t.Errorf("record = %+v", got)
	}

	if w = s.do(t, http.MethodPost, "/members/Dana/notes", map[string]any{"body": " "}); w.Code != http.StatusBadRequest {
		t.Errorf("append note status = %d, want 400", w.Code)
	}

	// The path name is matched to a team member and stored under their spelling.
	if w = s.do(t, http.MethodPost, "/members/dana/goals", map[string]any{"title": "Mentor"}); w.Code != http.StatusCreated {
		t.Errorf("append goal with lower-case name status = %d", w.Code)
	}
	if w = s.do(t, http.MethodPost, "/members/Dnaa/goals", map[string]any{"title": "Typo"}); w.Code != http.StatusNotFound {
		t.Errorf("append goal for unknown member status = %d, want 404", w.Code)
	}
	if w = s.do(t, http.MethodPost, "/members/Dnaa/notes", map[string]any{"body": "Typo"}); w.Code != http.StatusNotFound {
		t.Errorf("append note for unknown member status = %d, want 404", w.Code)
	}
	if len(goalsFor) != 2 || goalsFor[0] != "Dana" || goalsFor[1] != "Dana" {
		t.Errorf("goals written for %v, want [Dana Dana]", goalsFor)
	}
}

func TestSyncFailures(t *testing.T) {
	s := newTestServer(t)
	s.sync.pending = 3
	s.sync.failures = []persist.Result{{
		Job:      persist.Job{Op: persist.OpSaveTask, ID: "id-001"},
		Attempts: 5,
		Err:      errors.New("connection refused"),
	}}

	w := s.do(t, http.MethodGet, "/sync/failures", nil)
	got := decode[syncFailuresResponse](t, w)
	if got.Pending != 3 || len(got.Failures) != 1 || got.Failures[0].Op != "save_task" || got.Failures[0].Attempts != 5 {
		t.Errorf("failures = %+v", got)
	}

	if w = s.do(t, http.MethodDelete, "/sync/failures", nil); w.Code != http.StatusNoContent || !s.sync.cleared {
		t.Errorf("clear status = %d, cleared = %v", w.Code, s.sync.cleared)
	}
}

func TestNewErrorFromDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: board.ValidationError{Field: "title"}, want: http.StatusBadRequest},
		{name: "transition", err: board.InvalidTransitionError{TaskID: "t"}, want: http.StatusConflict},
		{name: "not found", err: fmt.Errorf("wrapped: %w", board.NotFoundError{Kind: "task"}), want: http.StatusNotFound},
		{name: "drag in progress", err: board.ErrDragInProgress, want: http.StatusConflict},
		{name: "member missing", err: services.ErrMemberNotFound, want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newErrorFromDomain(tt.err)
			if got.Code != tt.want {
				t.Errorf("code = %d, want %d", got.Code, tt.want)
			}
		})
	}

	if got := newErrorFromDomain(errors.New("pq: password leaked")); got.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("internal error message exposed: %q", got.Message)
	}
}
