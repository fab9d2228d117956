// Package router assembles the gin engine and wires the three inbound
// surfaces (OpenAI, Claude, native Gemini) onto internal/handlers.
package router

import (
	"net/http"
	"strings"

	"gcli2api-go/internal/config"
	"gcli2api-go/internal/handlers"
	hcommon "gcli2api-go/internal/handlers/common"
	"gcli2api-go/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the gin engine for the gateway.
func New(cfg *config.Config, deps *handlers.Deps) *gin.Engine {
	if !cfg.Security.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Recovery(), middleware.RequestLogger(), middleware.CORS(), middleware.Metrics())

	engine.GET("/", func(c *gin.Context) { deps.Root(c) })
	engine.GET("/health", func(c *gin.Context) { deps.Health(c) })
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/debug", middleware.AdminAuth(cfg.Security.AdminSecret), deps.DebugInfo)

	auth := middleware.UnifiedAuth(middleware.AuthConfig{RequiredKey: cfg.Security.InboundKey})

	v1 := engine.Group("/v1", auth)
	{
		v1.POST("/chat/completions", deps.ChatCompletions)
		v1.POST("/embeddings", deps.Embeddings)
		v1.POST("/messages", deps.Messages)
		v1.GET("/models", deps.ListModelsOpenAI)
		v1.GET("/models/:id", deps.GetModelOpenAI)
		v1.POST("/debug/token", deps.IssueDebugToken)
	}

	v1beta := engine.Group("/v1beta", auth)
	{
		v1beta.GET("/models", deps.ListModelsGemini)
		// The real Gemini wire shape puts model and action in one path segment
		// ("models/gemini-2.5-pro:generateContent") with no slash between
		// them, so gin's :param/*wildcard split can't separate them — a
		// single param captures the whole segment and the handler splits it
		// on the trailing ':'.
		v1beta.POST("/models/:modelAction", func(c *gin.Context) {
			model, action, ok := splitModelAction(c.Param("modelAction"))
			if !ok {
				hcommon.AbortWithError(c, http.StatusNotFound, "not_found", "expected models/{model}:{action}")
				return
			}
			c.Params = append(c.Params, gin.Param{Key: "model", Value: model})

			switch action {
			case "generateContent":
				deps.GenerateContent(c)
			case "streamGenerateContent":
				deps.StreamGenerateContent(c)
			case "countTokens":
				deps.CountTokens(c)
			case "embedContent":
				deps.EmbedContent(c)
			case "batchEmbedContents":
				deps.BatchEmbedContents(c)
			default:
				hcommon.AbortWithError(c, http.StatusNotFound, "not_found", "unknown action "+action)
			}
		})
	}

	return engine
}

// splitModelAction splits "gemini-2.5-pro:generateContent" into its model id
// and action name at the last colon (model ids never contain one).
func splitModelAction(modelAction string) (model, action string, ok bool) {
	idx := strings.LastIndex(modelAction, ":")
	if idx < 0 {
		return "", "", false
	}
	return modelAction[:idx], modelAction[idx+1:], true
}
