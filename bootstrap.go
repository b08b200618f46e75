package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// rehydrationScriptID marks the JSON blob the web app embeds in its HTML
// with the parameters a real browser session would report back.
const rehydrationScriptID = "__UNIVERSAL_DATA_FOR_REHYDRATION__"

// appContext is the slice of the rehydration data the sessions care about.
type appContext struct {
	Language string `json:"language"`
	Region   string `json:"region"`
	WID      string `json:"wid"`
}

// Bootstrap fetches the TikTok web app once per session and replaces the
// generated device parameters with the ones the page hands out. Best effort:
// a session that can't be bootstrapped keeps its generated parameters, and
// msToken cookies stay inside the stealth transport's cookie jar either way.
func (c *Client) Bootstrap(ctx context.Context) error {
	var lastErr error
	for i, sess := range c.pool.all() {
		if err := c.bootstrapSession(ctx, sess); err != nil {
			slog.Debug("tiktok: bootstrap failed", slog.Int("session", i), slog.Any("error", err))
			lastErr = err
		}
	}
	return lastErr
}

func (c *Client) bootstrapSession(ctx context.Context, sess *session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.BootstrapRequests.Add(1)

	headers := make(map[string]string, len(sess.headers))
	for k, v := range sess.headers {
		headers[k] = v
	}
	headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	body, status, err := c.transport.Do("GET", c.baseURL+"/", headers, nil)
	if err != nil {
		return fmt.Errorf("tiktok: bootstrap: %w", err)
	}
	if status != 200 {
		return &StatusError{Code: status}
	}

	app, err := parseRehydrationData(body)
	if err != nil {
		return err
	}

	if app.WID != "" {
		sess.setParam("device_id", app.WID)
	}
	if app.Language != "" {
		sess.setParam("app_language", app.Language)
	}
	if app.Region != "" {
		sess.setParam("region", app.Region)
	}
	return nil
}

// parseRehydrationData walks the page for the rehydration <script> and
// decodes the webapp.app-context slice out of it.
func parseRehydrationData(body []byte) (*appContext, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("tiktok: bootstrap parse: %w", err)
	}

	script := findByID(doc, rehydrationScriptID)
	if script == nil {
		return nil, invalidResponse(nil, "rehydration data not found in page")
	}

	var data struct {
		DefaultScope struct {
			AppContext appContext `json:"webapp.app-context"`
		} `json:"__DEFAULT_SCOPE__"`
	}
	if err := json.Unmarshal([]byte(textContent(script)), &data); err != nil {
		return nil, invalidResponse(nil, "malformed rehydration data: "+err.Error())
	}
	return &data.DefaultScope.AppContext, nil
}

// --- HTML tree helpers ---

// getAttr returns the value of an attribute on a node, or "".
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent recursively extracts all text from a node.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// findByID finds the first element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
