package adapthttp

import (
	"errors"
	"net/http"

	"authgate/internal/domain"
)

type homeData struct {
	Username string
}

type formData struct {
	Error      string
	SSOEnabled bool
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	s.render(w, http.StatusOK, "home.html", homeData{Username: session.Username})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", formData{SSOEnabled: s.oidc.Enabled})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	user, err := s.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		s.render(w, http.StatusOK, "login.html", formData{Error: "Invalid credentials", SSOEnabled: s.oidc.Enabled})
		return
	}
	if err != nil {
		s.log.Error("login", "error", err)
		s.renderError(w)
		return
	}

	if _, err := s.sessions.Login(r.Context(), w, user); err != nil {
		s.log.Error("create session", "username", user.Username, "error", err)
		s.renderError(w)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context(), w, r); err != nil {
		s.log.Error("logout", "error", err)
		s.renderError(w)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register.html", formData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	user, err := s.auth.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"))
	if errors.Is(err, domain.ErrDuplicateUser) {
		s.render(w, http.StatusOK, "register.html", formData{Error: "User already exists"})
		return
	}
	if err != nil {
		s.log.Error("register", "error", err)
		s.renderError(w)
		return
	}

	if _, err := s.sessions.Login(r.Context(), w, user); err != nil {
		s.log.Error("create session", "username", user.Username, "error", err)
		s.renderError(w)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
