// Package sucuri derives the session token that the schedule site's
// anti-automation proxy expects as a cookie.
//
// The landing page carries an inline script that, in a browser, decodes a
// second script which writes document.cookie and reloads the page. Deriver
// fetches the landing page, rewrites both scripts into plain functions that
// return their value, and runs them in a throwaway goja runtime. The rewrites
// key on literal substrings ("e(r);", "document.cookie", "location.reload();");
// if the site changes them derivation fails with a ParseError.
package sucuri
