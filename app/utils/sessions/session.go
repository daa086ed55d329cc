package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
)

const (
	sessionCookieName = "storefront-session"

	userIDSessionKey         = "userID"
	adminIDSessionKey        = "adminID"
	couponCodeSessionKey     = "couponCode"
	couponDiscountSessionKey = "couponDiscount"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	GetAdminID(r *http.Request) string
	SetAdminID(w http.ResponseWriter, r *http.Request, adminID string) error

	// The applied coupon lives in the session until checkout commits it.
	GetCoupon(r *http.Request) (code string, discount decimal.Decimal, ok bool)
	SetCoupon(w http.ResponseWriter, r *http.Request, code string, discount decimal.Decimal) error
	ClearCoupon(w http.ResponseWriter, r *http.Request) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) (*sessions.Session, error) {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session, nil
}

func (c *CookieSessionStore) getString(r *http.Request, key string) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ""
	}
	value, ok := session.Values[key].(string)
	if !ok {
		return ""
	}
	return value
}

func (c *CookieSessionStore) setString(w http.ResponseWriter, r *http.Request, key, value string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[key] = value
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.getString(r, userIDSessionKey)
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	return c.setString(w, r, userIDSessionKey, userID)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	delete(session.Values, userIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetAdminID(r *http.Request) string {
	return c.getString(r, adminIDSessionKey)
}

func (c *CookieSessionStore) SetAdminID(w http.ResponseWriter, r *http.Request, adminID string) error {
	return c.setString(w, r, adminIDSessionKey, adminID)
}

func (c *CookieSessionStore) GetCoupon(r *http.Request) (string, decimal.Decimal, bool) {
	code := c.getString(r, couponCodeSessionKey)
	if code == "" {
		return "", decimal.Zero, false
	}
	discount, err := decimal.NewFromString(c.getString(r, couponDiscountSessionKey))
	if err != nil {
		return "", decimal.Zero, false
	}
	return code, discount, true
}

func (c *CookieSessionStore) SetCoupon(w http.ResponseWriter, r *http.Request, code string, discount decimal.Decimal) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[couponCodeSessionKey] = code
	session.Values[couponDiscountSessionKey] = discount.String()
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearCoupon(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	delete(session.Values, couponCodeSessionKey)
	delete(session.Values, couponDiscountSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
