package controllers

import (
	"database/sql"
	"net/http"

	"outreach-portal/config"
	"outreach-portal/middleware"
	"outreach-portal/utils"
	"outreach-portal/views"

	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// ProfilePictureController uploads one picture to S3 and stores the URL on
// a participant record. The target defaults to the caller's own linked
// participant; managers may point it elsewhere with an explicit form field.
type ProfilePictureController struct {
	Cfg      *config.Config
	Sessions *middleware.SessionManager
}

func (pp ProfilePictureController) resolveTarget(r *http.Request) (int, bool) {
	id := middleware.IdentityFrom(r.Context())
	target := id.ParticipantID
	if id.Manager {
		if override, err := utils.StrToInt(r.PostFormValue("participant_id")); err == nil {
			target = override
		}
	}
	return target, target != 0
}

func (pp ProfilePictureController) Upload(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			views.RenderError(w, http.StatusBadRequest, "Invalid upload.")
			return
		}
		target, ok := pp.resolveTarget(r)
		if !ok {
			views.RenderError(w, http.StatusBadRequest, "No participant record is linked to this account.")
			return
		}

		file, header, err := r.FormFile("picture")
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A picture file is required.")
			return
		}
		defer file.Close()

		url, err := utils.UploadFileToS3(pp.Cfg, file, utils.PictureKey(header.Filename))
		if err != nil {
			serverError(w, err, "upload picture to S3")
			return
		}

		// The database is only touched after the storage write succeeded.
		if _, err := db.Exec("UPDATE participants SET profile_picture_url = ? WHERE participant_id = ?", url, target); err != nil {
			serverError(w, err, "store picture URL")
			return
		}

		if target == id.ParticipantID {
			if err := pp.Sessions.SetPictureURL(w, r, url); err != nil {
				logrus.WithError(err).Warn("refresh session picture")
			}
		}
		http.Redirect(w, r, "/participants", http.StatusSeeOther)
	}
}

func (pp ProfilePictureController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		target, ok := pp.resolveTarget(r)
		if !ok {
			views.RenderError(w, http.StatusBadRequest, "No participant record is linked to this account.")
			return
		}

		var current sql.NullString
		err := db.QueryRow("SELECT profile_picture_url FROM participants WHERE participant_id = ?", target).Scan(&current)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load current picture URL")
			return
		}

		if current.Valid && current.String != "" {
			if err := utils.DeleteFileFromS3(pp.Cfg, current.String); err != nil {
				// The reference is still cleared; the orphaned object is a
				// storage-side cleanup concern.
				logrus.WithError(err).Warn("delete picture from S3")
			}
		}

		if _, err := db.Exec("UPDATE participants SET profile_picture_url = NULL WHERE participant_id = ?", target); err != nil {
			serverError(w, err, "clear picture URL")
			return
		}

		if target == id.ParticipantID {
			if err := pp.Sessions.SetPictureURL(w, r, ""); err != nil {
				logrus.WithError(err).Warn("refresh session picture")
			}
		}
		http.Redirect(w, r, "/participants", http.StatusSeeOther)
	}
}
