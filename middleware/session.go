package middleware

import (
	"context"
	"net/http"

	"outreach-portal/config"
	"outreach-portal/models"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const sessionName = "outreach_session"

// Identity is the request-scoped view of the session. It is built once per
// request and is the only session state handlers and templates ever see.
type Identity struct {
	LoggedIn          bool
	UserID            int
	Username          string
	Role              string
	ParticipantID     int
	ProfilePictureURL string
	Manager           bool
}

type SessionManager struct {
	store *sessions.FilesystemStore
	cfg   *config.Config
}

func NewSessionManager(cfg *config.Config) *SessionManager {
	store := sessions.NewFilesystemStore(cfg.SessionDir, []byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
	}
	return &SessionManager{store: store, cfg: cfg}
}

// SignIn populates the session after a successful credential check. The
// manager flag is decided here once: the manager role and the configured
// superuser set go through the same predicate.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, user models.User, pictureURL string) error {
	session, _ := sm.store.Get(r, sessionName)
	session.Values["logged_in"] = true
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.Values["role"] = user.Role
	session.Values["manager"] = user.Role == models.RoleManager || sm.cfg.IsSuperuser(user.Username)
	participantID := 0
	if user.ParticipantID != nil {
		participantID = *user.ParticipantID
	}
	session.Values["participant_id"] = participantID
	session.Values["picture_url"] = pictureURL
	return session.Save(r, w)
}

func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := sm.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// SetPictureURL refreshes the cached profile picture so the next render does
// not show a stale navbar.
func (sm *SessionManager) SetPictureURL(w http.ResponseWriter, r *http.Request, url string) error {
	session, _ := sm.store.Get(r, sessionName)
	session.Values["picture_url"] = url
	return session.Save(r, w)
}

func (sm *SessionManager) Identity(r *http.Request) Identity {
	session, err := sm.store.Get(r, sessionName)
	if err != nil {
		// A bad or expired cookie is treated as an anonymous request.
		logrus.WithError(err).Debug("session decode failed")
		return Identity{}
	}
	loggedIn, _ := session.Values["logged_in"].(bool)
	if !loggedIn {
		return Identity{}
	}
	id := Identity{LoggedIn: true}
	id.UserID, _ = session.Values["user_id"].(int)
	id.Username, _ = session.Values["username"].(string)
	id.Role, _ = session.Values["role"].(string)
	id.Manager, _ = session.Values["manager"].(bool)
	id.ParticipantID, _ = session.Values["participant_id"].(int)
	id.ProfilePictureURL, _ = session.Values["picture_url"].(string)
	return id
}

type ctxKey int

const identityKey ctxKey = 0

// ContextWithIdentity attaches an already-built Identity to a context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// WithIdentity loads the session once and exposes it to every downstream
// handler through the request context.
func (sm *SessionManager) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), sm.Identity(r))))
	})
}

func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
