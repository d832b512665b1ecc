package app

import (
	"fmt"
	"github.com/egaotan/solana-router/engine"
	"github.com/egaotan/solana-router/optimizer"
	"github.com/egaotan/solana-router/store"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
)

func (r *Router) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	g := router.Group("/api")
	g.GET("/route", r.getRoute)
	g.GET("/arbitrage", r.getArbitrage)
	g.GET("/crosspool", r.getCrossPool)
	g.GET("/opportunity", r.getOpportunity)
	g.GET("/opportunities", r.getOpportunities)
	g.GET("/metrics", r.getMetrics)
	return router
}

func queryKey(c *gin.Context, name string) (solana.PublicKey, error) {
	value, ok := c.GetQuery(name)
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("parameter %s is missing", name)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("parameter %s is invalid: %w", name, err)
	}
	return key, nil
}

func queryUint(c *gin.Context, name string, def uint64) (uint64, error) {
	value, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s is invalid: %w", name, err)
	}
	return n, nil
}

func queryFloat(c *gin.Context, name string, def float64) (float64, error) {
	value, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s is invalid: %w", name, err)
	}
	return f, nil
}

// getRoute takes amount in base units of from.
func (r *Router) getRoute(c *gin.Context) {
	from, err := queryKey(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryKey(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	amount, err := queryUint(c, "amount", 0)
	if err != nil || amount == 0 {
		c.JSON(http.StatusBadRequest, "parameter amount is invalid")
		return
	}
	maxHops, err := queryUint(c, "max_hops", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	slippage, err := queryUint(c, "slippage_bps", 50)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	volatility, err := queryFloat(c, "volatility", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	constraints := &engine.Constraints{
		MaxHops:      int(maxHops),
		Split:        c.Query("split") == "true",
		SlippageBps:  slippage,
		MEVResistant: c.Query("mev") == "true",
	}
	if volatility > 0 {
		constraints.Optimizer = optimizer.DefaultParams()
		constraints.Optimizer.Volatility = volatility
	}
	result := r.engine.Route(from, to, amount, constraints)
	c.JSON(http.StatusOK, buildRouteResponse(from, to, amount, result, r.env))
}

func (r *Router) getArbitrage(c *gin.Context) {
	startAssets := r.config.MonitorTokens
	if _, ok := c.GetQuery("start"); ok {
		start, err := queryKey(c, "start")
		if err != nil {
			c.JSON(http.StatusBadRequest, err.Error())
			return
		}
		startAssets = []solana.PublicKey{start}
	}
	minProfitBps, err := queryFloat(c, "min_profit_bps", r.config.MinProfitBps)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	maxHops, err := queryUint(c, "max_hops", uint64(r.config.MaxHops))
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	ops := r.engine.Scan(c.Request.Context(), startAssets, minProfitBps, int(maxHops))
	c.JSON(http.StatusOK, buildOpportunities(ops, r.env))
}

func (r *Router) getCrossPool(c *gin.Context) {
	minSpreadBps, err := queryFloat(c, "min_spread_bps", r.config.MinSpreadBps)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	ops := r.engine.CrossPool(minSpreadBps)
	infos := make([]*CrossPoolInfo, 0, len(ops))
	for _, op := range ops {
		if r.store != nil {
			r.store.StoreCrossPoolOpportunity(store.NewCrossPoolOpportunity(op))
		}
		infos = append(infos, buildCrossPool(op, r.env))
	}
	c.JSON(http.StatusOK, infos)
}

// getOpportunity serves from the monitor cache first, then from the
// database when one is configured.
func (r *Router) getOpportunity(c *gin.Context) {
	idStr, ok := c.GetQuery("id")
	if !ok {
		c.JSON(http.StatusBadRequest, "parameter is invalid")
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	if r.monitor != nil {
		for _, op := range r.monitor.Opportunities() {
			if op.Id == id {
				c.JSON(http.StatusOK, buildOpportunity(op, r.env))
				return
			}
		}
	}
	if r.history == nil {
		c.JSON(http.StatusNotFound, "opportunity not found")
		return
	}
	rows, err := r.history.SelectOpportunity(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err.Error())
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, "opportunity not found")
		return
	}
	c.JSON(http.StatusOK, buildStoredOpportunity(rows[0], r.env))
}

func (r *Router) getOpportunities(c *gin.Context) {
	if c.Query("source") == "db" {
		if r.history == nil {
			c.JSON(http.StatusNotFound, "database is not configured")
			return
		}
		limit, err := queryUint(c, "limit", 20)
		if err != nil {
			c.JSON(http.StatusBadRequest, err.Error())
			return
		}
		rows, err := r.history.SelectRecentOpportunities(int(limit))
		if err != nil {
			c.JSON(http.StatusInternalServerError, err.Error())
			return
		}
		infos := make([]*OpportunityInfo, 0, len(rows))
		for _, row := range rows {
			infos = append(infos, buildStoredOpportunity(row, r.env))
		}
		c.JSON(http.StatusOK, infos)
		return
	}
	if r.monitor == nil {
		c.JSON(http.StatusOK, []*OpportunityInfo{})
		return
	}
	c.JSON(http.StatusOK, buildOpportunities(r.monitor.Opportunities(), r.env))
}

func (r *Router) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, r.engine.Diagnostics())
}
