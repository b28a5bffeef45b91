package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"labshare_dao/indexer"
	"labshare_dao/ledger"
)

type Options struct {
	Logger         *zap.Logger
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(l *ledger.Ledger, ix *indexer.Indexer, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 50
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 100
	}
	log := opts.Logger.Named("api")

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(log))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
	}
	if len(opts.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	h := &handlers{
		ledger:  l,
		index:   ix,
		limiter: newSenderLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		log:     log,
	}

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/tx", h.submitTx)
		v1.POST("/query", h.query)
		v1.GET("/actions", h.actions)
		v1.GET("/accounts/:address", h.account)
		v1.GET("/events", h.events)
		v1.POST("/faucet", h.faucet)
	}

	idx := v1.Group("/index")
	{
		idx.GET("/daos/:id", h.indexDAO)
		idx.GET("/escrows/:id", h.indexEscrow)
		idx.GET("/markets/:id", h.indexMarket)
		idx.GET("/incentives", h.indexIncentives)
		idx.GET("/stats", h.indexStats)
	}
	return r
}
