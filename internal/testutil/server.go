package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"taskdeck/internal/model"
)

// Server is an in-memory task backend for tests. It speaks the same HTTP
// surface as the real service: JSON bodies, bearer-token auth, numeric task
// ids. Tokens are short-lived JWTs signed with a per-server secret, so
// RotateSecret invalidates every token handed out so far.
type Server struct {
	URL string

	mu        sync.Mutex
	secret    []byte
	users     map[string]string // email -> password
	resets    map[string]string // reset token -> email
	nextID    int
	tasks     []serverTask
	lastReset string

	srv *httptest.Server
}

type serverTask struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// StartServer runs a fake backend and shuts it down when the test ends.
func StartServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		secret: []byte(uuid.NewString()),
		users:  make(map[string]string),
		resets: make(map[string]string),
		nextID: 1,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", s.handleForgot).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", s.handleReset).Methods(http.MethodPost)

	tasksAPI := r.PathPrefix("/api/tasks").Subrouter()
	tasksAPI.Use(s.requireToken)
	tasksAPI.HandleFunc("", s.handleList).Methods(http.MethodGet)
	tasksAPI.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	tasksAPI.HandleFunc("/{id}", s.handleUpdate).Methods(http.MethodPut)
	tasksAPI.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// AddUser registers an account without going through the register endpoint.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// Token mints a valid token for email, bypassing the login endpoint.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked(email)
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(uuid.NewString())
}

// SeedTask stores a task directly and returns its id.
func (s *Server) SeedTask(title, description string, completed bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.tasks = append(s.tasks, serverTask{ID: id, Title: title, Description: description, Completed: completed})
	return id
}

// Tasks returns a snapshot of the stored tasks in client form.
func (s *Server) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, model.Task{
			ID:          model.ID(strconv.Itoa(t.ID)),
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
		})
	}
	return out
}

// LastResetToken returns the token minted by the most recent forgot-password
// call, standing in for the link the real service would email out.
func (s *Server) LastResetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReset
}

func (s *Server) mintLocked(email string) string {
	claims := jwt.MapClaims{
		"sub": email,
		"jti": uuid.NewString(),
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("testutil: sign token: %v", err))
	}
	return tok
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing token"})
			return
		}
		s.mu.Lock()
		secret := s.secret
		s.mu.Unlock()
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pw, ok := s.users[req.Email]
	if !ok || pw != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.mintLocked(req.Email)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
		return
	}
	s.users[req.Email] = req.Password
	writeJSON(w, http.StatusCreated, map[string]string{})
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Same answer whether or not the account exists, so addresses cannot
	// be probed. A reset token is only minted for real accounts.
	if _, ok := s.users[req.Email]; ok {
		tok := uuid.NewString()
		s.resets[tok] = req.Email
		s.lastReset = tok
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resets[req.Token]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset token"})
		return
	}
	delete(s.resets, req.Token)
	s.users[email] = req.Password
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]serverTask, len(s.tasks))
	copy(out, s.tasks)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := serverTask{ID: s.nextID, Title: req.Title, Description: req.Description, Completed: req.Completed}
	s.nextID++
	s.tasks = append(s.tasks, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad task id"})
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Title = req.Title
			s.tasks[i].Description = req.Description
			s.tasks[i].Completed = req.Completed
			writeJSON(w, http.StatusOK, s.tasks[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad task id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
