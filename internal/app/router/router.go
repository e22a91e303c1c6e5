// Package router assembles the gin engine and its routes.
package router

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	authhandler "papertrade/internal/feature/auth/transport/handler"
	portfoliohandler "papertrade/internal/feature/portfolio/transport/handler"
	quoteshandler "papertrade/internal/feature/quotes/transport/handler"
	"papertrade/internal/platform/http/handler"
	"papertrade/internal/platform/http/middleware"
)

// NewRouter wires every route. authRequired guards the pages that need a session.
func NewRouter(
	html render.HTMLRender,
	authRequired gin.HandlerFunc,
	health *handler.HealthHandler,
	auth *authhandler.AuthHandler,
	portfolio *portfoliohandler.PortfolioHandler,
	quotes *quoteshandler.QuoteHandler,
) *gin.Engine {
	r := gin.New()
	r.HTMLRender = html
	r.Use(requestid.New(), middleware.RequestLogger(), gin.Recovery(), middleware.NoCache())

	// No session needed
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)
	r.GET("/login", auth.LoginForm)
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)
	r.GET("/register", auth.RegisterForm)
	r.POST("/register", auth.Register)

	// Session required
	authed := r.Group("/")
	authed.Use(authRequired)
	{
		authed.GET("/", portfolio.Index)
		authed.GET("/buy", portfolio.BuyForm)
		authed.POST("/buy", portfolio.Buy)
		authed.GET("/sell", portfolio.SellForm)
		authed.POST("/sell", portfolio.Sell)
		authed.GET("/history", portfolio.History)

		authed.GET("/quote", quotes.QuoteForm)
		authed.POST("/quote", quotes.Quote)
		authed.GET("/research", quotes.ResearchForm)
		authed.POST("/research", quotes.Research)
		authed.GET("/research/:symbol", quotes.Detail)

		authed.GET("/changepass", auth.ChangePasswordForm)
		authed.POST("/changepass", auth.ChangePassword)
	}

	return r
}
