package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "eval_session"
	sessionLocalsKey  = "session_id"
)

// SessionMiddleware makes sure every request carries an evaluator session id,
// issuing a new cookie when the client has none or sent a malformed one. The
// cookie lives for the browser session; server-side expiry is left to the
// session store, which slides its TTL on every save.
func SessionMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// the id outlives the request (it keys the session store), so it must
		// not alias fasthttp's reusable buffer
		id := utils.CopyString(ctx.Cookies(SessionCookieName))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			ctx.Cookie(&fiber.Cookie{
				Name:        SessionCookieName,
				Value:       id,
				Path:        "/",
				HTTPOnly:    true,
				SameSite:    fiber.CookieSameSiteLaxMode,
				SessionOnly: true,
			})
		}
		ctx.Locals(sessionLocalsKey, id)
		return ctx.Next()
	}
}

// SessionID returns the id set by SessionMiddleware.
func SessionID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(sessionLocalsKey).(string)
	return id
}
