package portfolio

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleListPosts returns all posts, newest first.
func (a *App) handleListPosts(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// handleCreatePost ingests a submission and returns the persisted record.
func (a *App) handleCreatePost(c echo.Context) error {
	var sub PostSubmission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	post, err := a.Ingestor.CreatePost(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Blog post added successfully!",
		"post":    post,
	})
}

// handleDeletePost deletes the post with the slug given in the query
// string. Deletion is an optional store capability; backends without it
// answer 501.
func (a *App) handleDeletePost(c echo.Context) error {
	slug := c.QueryParam("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Slug is required for deletion.")
	}

	deleter, ok := a.Store.(PostDeleter)
	if !ok {
		return echo.NewHTTPError(http.StatusNotImplemented, "The configured store does not support deletion.")
	}

	post, err := deleter.DeletePostBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Blog post deleted successfully!",
		"post":    post,
	})
}

// handleContact processes a contact-form inquiry. A validated inquiry is
// never reported lost: if only the confirmation email failed the response
// is a 202 naming the uncertainty.
func (a *App) handleContact(c echo.Context) error {
	if !a.submitLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many submissions. Try again later.")
	}

	var sub ContactSubmission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	out, err := a.Contact.Submit(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	if !out.ConfirmationSent {
		return c.JSON(http.StatusAccepted, map[string]string{
			"message": "Message sent, but confirmation delivery is uncertain. Please check your spam folder.",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Message sent successfully!"})
}

// handleNewsletter records a signup and sends the welcome email.
func (a *App) handleNewsletter(c echo.Context) error {
	if !a.submitLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many submissions. Try again later.")
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	welcomeSent, err := a.Newsletter.Subscribe(c.Request().Context(), body.Email)
	if err != nil {
		return err
	}
	if !welcomeSent {
		return c.JSON(http.StatusAccepted, map[string]string{
			"message": "Subscribed successfully, but the welcome email could not be sent.",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Subscribed successfully!"})
}
