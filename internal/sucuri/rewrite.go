package sucuri

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
)

const (
	stage1Func = "get_token"
	stage2Func = "get_cookie"

	// Terminal call that evals the decoded script.
	evalCall    = "e(r);"
	cookieWrite = "document.cookie"
	reloadCall  = "location.reload();"
	cookieLocal = "var cookie"
)

var scriptPattern = regexp.MustCompile(`<script>([\s\S]*?)</script>`)

// ExtractScript returns the body of the first inline <script> block.
func ExtractScript(html string) (string, error) {
	m := scriptPattern.FindStringSubmatch(html)
	if m == nil {
		return "", apperr.Parse("sucuri.ExtractScript", "no script tag found", nil)
	}
	return m[1], nil
}

// RewriteStage1 turns the landing page script into a function that returns
// the decoded second-stage script instead of evaluating it.
func RewriteStage1(script string) (string, error) {
	if !strings.Contains(script, evalCall) {
		return "", apperr.Parse("sucuri.RewriteStage1", "terminal eval call "+evalCall+" not found", nil)
	}
	body := strings.ReplaceAll(script, evalCall, ";return r}")
	return "function " + stage1Func + "() {" + body, nil
}

// RewriteStage2 turns the decoded script into a function that returns the
// cookie string instead of writing it and reloading.
func RewriteStage2(script string) (string, error) {
	if !strings.Contains(script, cookieWrite) {
		return "", apperr.Parse("sucuri.RewriteStage2", cookieWrite+" assignment not found", nil)
	}
	body := strings.ReplaceAll(script, cookieWrite, cookieLocal)
	body = strings.ReplaceAll(body, reloadCall, "")
	return "function " + stage2Func + "() {" + body + ";return cookie}", nil
}
