package interpreter

import "net/url"

// steeringContext carries the mutable state the steering detector and
// driver loop consult across steps: visited URL history, the running
// depth, and an open extracted-data bag a host integration may have
// seeded with an "_allowedDomains" marker (see DESIGN.md Open Question
// resolution 2 — nothing in this repo writes that key itself).
type steeringContext struct {
	Visited []string
	Depth   int
	Domain  string
	Data    map[string]any
}

func newSteeringContext() *steeringContext {
	return &steeringContext{Data: make(map[string]any)}
}

func (c *steeringContext) recordVisit(rawURL string) {
	c.Visited = append(c.Visited, rawURL)
	if host := hostOf(rawURL); host != "" {
		c.Domain = host
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// detectSteering reports whether the edge just taken represents unsafe
// branch-steering: the current domain differs from the previously
// visited one, and an "_allowedDomains" marker present in the context's
// data bag excludes the current domain.
func detectSteering(observationURL string, ctx *steeringContext) bool {
	if len(ctx.Visited) < 2 {
		return false
	}
	prevHost := hostOf(ctx.Visited[len(ctx.Visited)-2])
	curHost := hostOf(observationURL)
	if prevHost == "" || curHost == "" || prevHost == curHost {
		return false
	}

	marker, ok := ctx.Data["_allowedDomains"]
	if !ok {
		return false
	}
	allowed, ok := marker.([]string)
	if !ok {
		return false
	}
	for _, d := range allowed {
		if d == curHost {
			return false
		}
	}
	return true
}
