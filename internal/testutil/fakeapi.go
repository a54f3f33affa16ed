package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// FakeAPI is an httptest server speaking the task REST API. Tokens are HS256
// JWTs whose subject is the user's email.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	secret   []byte
	users    map[string]*fakeUser // email -> user
	nextID   int
	failures map[string]fakeFailure // "METHOD /path" -> canned response
	requests []string               // "METHOD /path", in arrival order
	headers  http.Header            // headers of the most recent request
}

type fakeUser struct {
	name     string
	password string
	image    string
	tasks    []fakeTask
}

// fakeTask is the task resource as the server stores and returns it.
type fakeTask struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	CreatedDate    string  `json:"created_date"`
	CompletionDate *string `json:"completion_date"`
	IsCompleted    bool    `json:"is_completed"`
}

type fakeFailure struct {
	status int
	body   string
}

// serverDateLayout mimics the microsecond timestamps of common PHP backends.
const serverDateLayout = "2006-01-02T15:04:05.000000Z"

// NewFakeAPI starts a FakeAPI. The server is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	f := &FakeAPI{
		secret:   []byte("test-secret"),
		users:    make(map[string]*fakeUser),
		nextID:   1,
		failures: make(map[string]fakeFailure),
	}

	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/login", f.login).Methods(http.MethodPost)
	r.HandleFunc("/register", f.register).Methods(http.MethodPost)

	private := r.NewRoute().Subrouter()
	private.Use(f.auth)
	private.HandleFunc("/tasks", f.listTasks).Methods(http.MethodGet)
	private.HandleFunc("/tasks", f.createTask).Methods(http.MethodPost)
	private.HandleFunc("/tasks/{id}", f.updateTask).Methods(http.MethodPut)
	private.HandleFunc("/tasks/{id}", f.deleteTask).Methods(http.MethodDelete)
	private.HandleFunc("/tasks/{id}/complete", f.completeTask).Methods(http.MethodPatch)
	private.HandleFunc("/profile", f.profile).Methods(http.MethodGet)
	private.HandleFunc("/upload-profile-picture", f.uploadPicture).Methods(http.MethodPost)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddUser creates an account.
func (f *FakeAPI) AddUser(name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = &fakeUser{name: name, password: password}
}

// IssueToken signs a token for email without a login round trip.
func (f *FakeAPI) IssueToken(email string) string {
	token, err := f.sign(email)
	if err != nil {
		panic(err)
	}
	return token
}

// Fail makes every request matching method and path return status and body.
func (f *FakeAPI) Fail(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = fakeFailure{status: status, body: body}
}

// Requests returns "METHOD /path" for every request received, in order.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Headers returns the headers of the most recent request.
func (f *FakeAPI) Headers() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers.Clone()
}

// TaskCount returns the number of tasks stored for email.
func (f *FakeAPI) TaskCount(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return len(u.tasks)
	}
	return 0
}

func (f *FakeAPI) sign(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.requests = append(f.requests, key)
		f.headers = r.Header.Clone()
		failure, failing := f.failures[key]
		f.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.status)
			fmt.Fprint(w, failure.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

func (f *FakeAPI) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			return f.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}

		f.mu.Lock()
		_, exists := f.users[claims.Subject]
		f.mu.Unlock()
		if !exists {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// user returns the authenticated user. Callers hold f.mu.
func (f *FakeAPI) user(r *http.Request) *fakeUser {
	email, _ := r.Context().Value(userKey{}).(string)
	return f.users[email]
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	f.mu.Lock()
	u, ok := f.users[req.Email]
	f.mu.Unlock()
	if !ok || u.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	token, err := f.sign(req.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	if req.Password != req.PasswordConfirmation {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "The password field confirmation does not match."})
		return
	}

	f.mu.Lock()
	if _, exists := f.users[req.Email]; exists {
		f.mu.Unlock()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "The email has already been taken."})
		return
	}
	f.users[req.Email] = &fakeUser{name: req.Name, password: req.Password}
	f.mu.Unlock()

	token, err := f.sign(req.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (f *FakeAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := f.user(r).tasks
	if tasks == nil {
		tasks = []fakeTask{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type fakeTaskBody struct {
	Name           string `json:"name"`
	CreatedDate    string `json:"created_date"`
	CompletionDate string `json:"completion_date"`
}

func (b fakeTaskBody) dates() (string, *string, error) {
	created, err := time.Parse(time.RFC3339, b.CreatedDate)
	if err != nil {
		return "", nil, errors.New("The created date field must be a valid date.")
	}
	if b.CompletionDate == "" {
		return created.UTC().Format(serverDateLayout), nil, nil
	}
	completion, err := time.Parse(time.RFC3339, b.CompletionDate)
	if err != nil {
		return "", nil, errors.New("The completion date field must be a valid date.")
	}
	c := completion.UTC().Format(serverDateLayout)
	return created.UTC().Format(serverDateLayout), &c, nil
}

func (f *FakeAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var body fakeTaskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "The name field is required."})
		return
	}
	created, completion, err := body.dates()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.user(r)
	task := fakeTask{ID: f.nextID, Name: body.Name, CreatedDate: created, CompletionDate: completion}
	f.nextID++
	u.tasks = append(u.tasks, task)
	writeJSON(w, http.StatusCreated, task)
}

// findTask returns the index of the task named by the {id} route variable.
// Callers hold f.mu.
func (f *FakeAPI) findTask(r *http.Request) (*fakeUser, int) {
	u := f.user(r)
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return u, -1
	}
	for i, t := range u.tasks {
		if t.ID == id {
			return u, i
		}
	}
	return u, -1
}

func (f *FakeAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	var body fakeTaskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	created, completion, err := body.dates()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, i := f.findTask(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	u.tasks[i].Name = body.Name
	u.tasks[i].CreatedDate = created
	u.tasks[i].CompletionDate = completion
	writeJSON(w, http.StatusOK, u.tasks[i])
}

func (f *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, i := f.findTask(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	u.tasks = append(u.tasks[:i], u.tasks[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (f *FakeAPI) completeTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, i := f.findTask(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	u.tasks[i].IsCompleted = true
	writeJSON(w, http.StatusOK, u.tasks[i])
}

func (f *FakeAPI) profile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.user(r)
	var image *string
	if u.image != "" {
		image = &u.image
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": u.name, "image": image})
}

func (f *FakeAPI) uploadPicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "Invalid upload"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"status": "error", "message": "The image field is required."})
		return
	}
	file.Close()
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "The image must be an image."})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.user(r)
	u.image = f.Server.URL + "/storage/profile/" + header.Filename
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"message":   "Profile picture uploaded successfully",
		"image_url": u.image,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
