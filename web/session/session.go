// Package session stores the staff identity and one-shot flash messages in
// signed cookies.
package session

import (
	"net/http"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/util/crypto"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// IdentityName is the cookie holding the logged in staff member.
	IdentityName = "carrental"
	// FlashName is the cookie holding flash messages. It is separate so a
	// failed login never writes an identity cookie.
	FlashName = "carrental_flash"

	staffIdKey = "STAFF_ID"
	stampKey   = "STAFF_STAMP"
	contextKey = "staff"
)

// Names lists the cookies to register with sessions.SessionsMany.
var Names = []string{IdentityName, FlashName}

func options(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetLoginStaff writes the identity cookie for staff. maxAge is in seconds.
func SetLoginStaff(c *gin.Context, staff *model.Staff, maxAge int) error {
	s := sessions.DefaultMany(c, IdentityName)
	s.Clear()
	s.Set(staffIdKey, staff.Id)
	s.Set(stampKey, crypto.Stamp(staff.PasswordHash))
	s.Options(options(maxAge))
	return s.Save()
}

// GetSessionStaff returns the staff id and credential stamp the identity
// cookie carries, or zero values when there is none.
func GetSessionStaff(c *gin.Context) (int, string) {
	s := sessions.DefaultMany(c, IdentityName)
	id, _ := s.Get(staffIdKey).(int)
	stamp, _ := s.Get(stampKey).(string)
	return id, stamp
}

// SetStaff attaches the resolved identity to the request.
func SetStaff(c *gin.Context, staff *model.Staff) {
	c.Set(contextKey, staff)
}

// GetLoginStaff returns the identity resolved for this request, if any.
func GetLoginStaff(c *gin.Context) *model.Staff {
	if obj, ok := c.Get(contextKey); ok {
		if staff, ok := obj.(*model.Staff); ok {
			return staff
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginStaff(c) != nil
}

// ClearSession expires the identity cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.DefaultMany(c, IdentityName)
	s.Clear()
	s.Options(options(-1))
	return s.Save()
}

// AddFlash queues a message for the next page render.
func AddFlash(c *gin.Context, msg string) error {
	s := sessions.DefaultMany(c, FlashName)
	s.Options(options(0))
	s.AddFlash(msg)
	return s.Save()
}

// Flashes pops the queued messages. The error reports a failure to save
// the emptied flash cookie.
func Flashes(c *gin.Context) ([]string, error) {
	s := sessions.DefaultMany(c, FlashName)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs, s.Save()
}
