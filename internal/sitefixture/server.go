// Package sitefixture serves an offline replica of the contact form so the
// e2e suite can run without the live site. The markup keeps the live form's
// field names and ids; a valid submission redirects to /thank-you/ and an
// invalid one re-renders the form on /contact/.
package sitefixture

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/v0xg/contactcheck/internal/console"
)

const (
	ContactPath  = "/contact/"
	ThankYouPath = "/thank-you/"
	AjaxPath     = "/wp-admin/admin-ajax.php"
)

// Submission is one accepted form post.
type Submission struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Details   string
	HearAbout string
	Budget    string
	Services  []string
}

// Config holds server configuration options.
type Config struct {
	Addr         string // Listen address (":0" for a random port)
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig binds to a random loopback port.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

type Server struct {
	httpServer *http.Server
	handler    http.Handler
	log        console.Logger
	addr       string
	running    bool

	mu          sync.Mutex
	submissions []Submission
}

func NewServer(cfg Config, log console.Logger) *Server {
	if log == nil {
		log = console.NullLogger()
	}
	s := &Server{log: log}

	router := mux.NewRouter()
	router.HandleFunc(ContactPath, s.serveForm).Methods(http.MethodGet)
	router.HandleFunc(ContactPath, s.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc(ThankYouPath, serveThankYou).Methods(http.MethodGet)
	router.HandleFunc(AjaxPath, s.handleAjax).Methods(http.MethodPost)
	router.Handle("/", http.RedirectHandler(ContactPath, http.StatusFound))
	s.handler = router

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start listens and serves in the background, returning the bound address.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Printf("site fixture stopped: %v", err)
		}
	}()
	return s.addr, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// ContactURL is the replica's contact page. Empty until Start.
func (s *Server) ContactURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" {
		return ""
	}
	return "http://" + s.addr + ContactPath
}

// Submissions returns the accepted posts so far.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

func (s *Server) serveForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, nil, nil)
}

func (s *Server) render(w http.ResponseWriter, status int, errs []string, values map[string]string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := contactTemplate.Execute(w, pageData{
		Errors:    errs,
		Values:    values,
		HearAbout: HearAboutOptions,
		Budgets:   BudgetOptions,
		Services:  Services,
	})
	if err != nil {
		s.log.Printf("render contact page: %v", err)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub, consent := parseSubmission(r)
	if errs := Validate(sub, consent); len(errs) > 0 {
		s.log.Printf("rejected submission: %s", strings.Join(errs, "; "))
		values := map[string]string{}
		for k := range r.PostForm {
			values[k] = r.PostForm.Get(k)
		}
		s.render(w, http.StatusOK, errs, values)
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()
	s.log.Printf("accepted submission from %s", sub.Email)
	http.Redirect(w, r, ThankYouPath, http.StatusSeeOther)
}

func (s *Server) handleAjax(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub, consent := parseSubmission(r)
	errs := Validate(sub, consent)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	status := http.StatusOK
	if len(errs) == 0 {
		body.Success = true
		body.Data.Message = "Thank you! Your message has been sent."
		s.mu.Lock()
		s.submissions = append(s.submissions, sub)
		s.mu.Unlock()
	} else {
		status = http.StatusBadRequest
		body.Data.Message = strings.Join(errs, " ")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func serveThankYou(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(thankYouPage))
}

func parseSubmission(r *http.Request) (Submission, bool) {
	f := r.PostForm
	sub := Submission{
		FirstName: strings.TrimSpace(f.Get("input_5")),
		LastName:  strings.TrimSpace(f.Get("input_18")),
		Email:     strings.TrimSpace(f.Get("input_17")),
		Phone:     f.Get("input_8"),
		Company:   f.Get("input_11"),
		Details:   f.Get("input_15"),
		HearAbout: f.Get("input_9"),
		Budget:    f.Get("input_12"),
	}
	for i := range Services {
		if v := f.Get(fmt.Sprintf("input_14.%d", i+1)); v != "" {
			sub.Services = append(sub.Services, v)
		}
	}
	return sub, f.Get("input_16.1") != ""
}

// Validate applies the live form's rules: names and a well-formed email are
// required and consent must be given. Like the live form, any non-empty name
// is accepted.
func Validate(sub Submission, consent bool) []string {
	var errs []string
	if sub.FirstName == "" {
		errs = append(errs, "First name is required.")
	}
	if sub.LastName == "" {
		errs = append(errs, "Last name is required.")
	}
	if sub.Email == "" {
		errs = append(errs, "Email is required.")
	} else if _, err := mail.ParseAddress(sub.Email); err != nil {
		errs = append(errs, "Please enter a valid email address.")
	}
	if !consent {
		errs = append(errs, "Consent is required.")
	}
	return errs
}
