package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/jobagent/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	health *handlers.HealthHandler,
	cand *handlers.CandidateHandler,
	resumes *handlers.DocumentHandler,
	coverLetters *handlers.DocumentHandler,
	listings *handlers.ListingHandler,
	applications *handlers.ApplicationHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)

	me := v1.Group("/me", authMW)
	me.Get("/", cand.Me)
	me.Patch("/", cand.Update)
	me.Delete("/", cand.DeleteAccount)
	me.Get("/socials", cand.ListSocials)
	me.Put("/socials", cand.UpsertSocial)
	me.Delete("/socials/:id", cand.DeleteSocial)

	for path, h := range map[string]*handlers.DocumentHandler{
		"/resumes":       resumes,
		"/cover-letters": coverLetters,
	} {
		g := me.Group(path)
		g.Post("/", h.Upload)
		g.Get("/", h.List)
		g.Get("/:id/download", h.Download)
		g.Delete("/:id", h.Delete)
	}

	jl := v1.Group("/job-listings", authMW)
	jl.Post("/scrape", listings.Ingest)
	jl.Post("/", listings.Create)
	jl.Get("/", listings.List)
	jl.Get("/:id", listings.Get)

	ap := me.Group("/applications")
	ap.Post("/", applications.Create)
	ap.Get("/", applications.List)
	ap.Get("/:id", applications.Get)
	ap.Patch("/:id", applications.Update)
}
