package middleware

import (
	"net/http"
	"sync"
	"time"

	"gestion/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventanaIP counts requests per client IP in fixed windows.
type ventanaIP struct {
	limite  int
	ventana time.Duration

	mu      sync.Mutex
	entries map[string]*ipEntry
}

type ipEntry struct {
	count     int
	windowEnd time.Time
}

func nuevaVentana(limite int, ventana time.Duration) *ventanaIP {
	v := &ventanaIP{limite: limite, ventana: ventana, entries: make(map[string]*ipEntry)}
	registrarParaPurga(v)
	return v
}

// permitir records one hit and reports whether it is within the limit, plus
// the end of the current window.
func (v *ventanaIP) permitir(ip string, now time.Time) (bool, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &ipEntry{windowEnd: now.Add(v.ventana)}
		v.entries[ip] = e
	}
	e.count++
	return e.count <= v.limite, e.windowEnd
}

func (v *ventanaIP) purgar(now time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for ip, e := range v.entries {
		if now.After(e.windowEnd) {
			delete(v.entries, ip)
			n++
		}
	}
	return n
}

// LoginRateLimiter limits login attempts to limite per minute per IP.
func LoginRateLimiter(limite int) gin.HandlerFunc {
	v := nuevaVentana(limite, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := v.permitir(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general API limiter.
func RateLimiter(limite int, ventana time.Duration) gin.HandlerFunc {
	v := nuevaVentana(limite, ventana)
	return func(c *gin.Context) {
		ok, fin := v.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// One goroutine drops expired entries from every limiter so IPs that never
// come back do not accumulate.

const purgeInterval = 5 * time.Minute

var (
	ventanasMu    sync.Mutex
	ventanas      []*ventanaIP
	purgaIniciada sync.Once
)

func registrarParaPurga(v *ventanaIP) {
	ventanasMu.Lock()
	ventanas = append(ventanas, v)
	ventanasMu.Unlock()
	purgaIniciada.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		ventanasMu.Lock()
		lista := append([]*ventanaIP(nil), ventanas...)
		ventanasMu.Unlock()

		purged := 0
		for _, v := range lista {
			purged += v.purgar(now)
		}
		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}
