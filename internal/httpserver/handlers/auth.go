package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func Signup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[auth.SignupInput](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sess, err := d.Auth.Signup(r.Context(), in)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("user signed up",
			logger.String("user", sess.User.ID),
			logger.String("username", sess.User.Username))
		writeJSON(w, http.StatusCreated, sess)
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[loginRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sess, err := d.Auth.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFrom(r.Context())
		if err := d.Auth.Logout(r.Context(), p); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Workspace.Forget(p.UserID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prof, err := d.Auth.Me(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, prof)
	}
}

func UpdateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upd, err := decode[auth.ProfileUpdate](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		prof, err := d.Auth.UpdateProfile(r.Context(), userID(r), upd)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, prof)
	}
}

func ChangePassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[changePasswordRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Auth.ChangePassword(r.Context(), userID(r), in.CurrentPassword, in.NewPassword); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
