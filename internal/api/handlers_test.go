package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/mergington/internal/catalog"
	"example.com/mergington/internal/domain"
	"example.com/mergington/internal/persistence/memory"
)

type fixture struct {
	mux  *http.ServeMux
	repo *memory.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	seed, err := catalog.Default()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewRepository(seed)
	handler := NewHandler(domain.NewService(repo, nil, logger), logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return fixture{mux: mux, repo: repo}
}

func (f fixture) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

func (f fixture) stored(name string) (domain.Activity, error) {
	activities, err := f.repo.List(context.Background())
	if err != nil {
		return domain.Activity{}, err
	}
	for _, activity := range activities {
		if activity.Name == name {
			return activity, nil
		}
	}
	return domain.Activity{}, domain.ErrActivityNotFound
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRootRedirect(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/")

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/static/index.html")
}

func TestListActivities(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ActivitiesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 9)
	require.Contains(t, resp, "Programming Class")

	chess, ok := resp["Chess Club"]
	require.True(t, ok)
	assert.Equal(t, "Learn strategies and compete in chess tournaments", chess.Description)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Len(t, chess.Participants, 2)
}

func TestListActivitiesMatchesSeed(t *testing.T) {
	f := newFixture(t)
	seed, err := catalog.Default()
	require.NoError(t, err)

	rr := f.do(http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ActivitiesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	for _, activity := range seed {
		view, ok := resp[activity.Name]
		require.True(t, ok, "missing %s", activity.Name)
		assert.Equal(t, activity.Description, view.Description)
		assert.Equal(t, activity.Schedule, view.Schedule)
		assert.Equal(t, activity.MaxParticipants, view.MaxParticipants)
		assert.Len(t, view.Participants, len(activity.Participants))
	}
}

func TestActivitiesStructure(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	for name, fields := range raw {
		for _, field := range []string{"description", "schedule", "max_participants", "participants"} {
			assert.Contains(t, fields, field, "missing field %q in %s", field, name)
		}
		var participants []string
		require.NoError(t, json.Unmarshal(fields["participants"], &participants), name)
		assert.NotNil(t, participants, "participants of %s must be a list", name)
	}
}

func TestSignupSuccess(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent@mergington.edu")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Signed up newstudent@mergington.edu for Chess Club", resp.Message)

	stored, err := f.stored("Chess Club")
	require.NoError(t, err)
	assert.Contains(t, stored.Participants, "newstudent@mergington.edu")
	assert.Len(t, stored.Participants, 3)
}

func TestSignupActivityNotFound(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/activities/Nonexistent%20Activity/signup?email=student@mergington.edu")
	require.Equal(t, http.StatusNotFound, rr.Code)

	body := decodeError(t, rr)
	assert.Equal(t, "Activity not found", body.Detail)
	assert.Equal(t, "not_found", body.Type)
}

func TestSignupAlreadyRegistered(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/activities/Chess%20Club/signup?email=michael@mergington.edu")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Student already signed up", decodeError(t, rr).Detail)

	stored, err := f.stored("Chess Club")
	require.NoError(t, err)
	assert.Len(t, stored.Participants, 2)
}

func TestSignupMultipleActivities(t *testing.T) {
	f := newFixture(t)
	email := "multi@mergington.edu"

	first := f.do(http.MethodPost, "/activities/Chess%20Club/signup?email="+email)
	require.Equal(t, http.StatusOK, first.Code)
	second := f.do(http.MethodPost, "/activities/Programming%20Class/signup?email="+email)
	require.Equal(t, http.StatusOK, second.Code)

	chess, err := f.stored("Chess Club")
	require.NoError(t, err)
	assert.Contains(t, chess.Participants, email)
	programming, err := f.stored("Programming Class")
	require.NoError(t, err)
	assert.Contains(t, programming.Participants, email)
}

func TestSignupRequiresEmailParameter(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/activities/Chess%20Club/signup")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "validation_failed", decodeError(t, rr).Type)
}

func TestSignupAcceptsUnvalidatedEmail(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/activities/Soccer/signup?email=not-an-email")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestSignupIgnoresCapacity(t *testing.T) {
	seed := []domain.Activity{{Name: "Tiny", MaxParticipants: 1, Participants: []string{"a@mergington.edu"}}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(domain.NewService(memory.NewRepository(seed), nil, logger), logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/activities/Tiny/signup?email=b@mergington.edu", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSignupWrongMethod(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/activities/Chess%20Club/signup?email=a@mergington.edu")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestServerErrorIsOpaque(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(domain.NewService(brokenRepo{}, nil, logger), logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "server_error", decodeError(t, rr).Type)
}

type brokenRepo struct{}

func (brokenRepo) List(context.Context) ([]domain.Activity, error) {
	return nil, errors.New("storage offline")
}

func (brokenRepo) AddParticipant(context.Context, string, string) (domain.Activity, error) {
	return domain.Activity{}, errors.New("storage offline")
}
