// Package scraper performs the HTTP side of talking to the online schedule:
// fetching the landing page (with or without the session cookie), fetching a
// department's schedule page, and pulling department codes out of the
// landing page's links.
//
// Every request carries the configured browser User-Agent; the site turns
// away generic clients. Nothing is retried here: a failed request is
// reported to the caller as a FetchError straight away.
package scraper
