// Package api serves the catalog over HTTP.
//
// Routes:
//
//	GET /api/departments               department codes
//	GET /api/departments/:dept         sections offered by a department
//	GET /api/courses/:code             sections of one course code
//	GET /api/courses/:code/calendar    the same sections as an .ics file
//	GET /api/plan?code=A&code=B        conflict-free timetables
//	GET /health
//	GET /metrics
//
// Successful responses are {"code":200,"data":...}; failures are
// {"code":<status>,"message":"..."}. Course routes accept the query filters
// day, between, teacher, title, course, open and changed.
package api
