// Package http implements the HTTP handlers of the sales dashboard. Handlers
// are thin: they parse the request, call a service and render the result or
// an RFC 7807 problem.
//
// # Routes
//
//	GET  /api/dashboard                 KPIs, tier table and every chart
//	POST /api/dashboard/query           same, filter in a JSON body
//	GET  /api/dashboard/options         filter choices of the dataset
//	GET  /api/dashboard/filter          the select-everything filter
//	GET  /api/dashboard/kpis            KPIs only
//	GET  /api/dashboard/charts          chart names
//	GET  /api/dashboard/charts/{chart}  one chart
//	GET  /api/dashboard/groups/{field}  sales summed by one field
//	GET  /api/dashboard/export          filtered rows as csv or xlsx
//	GET  /api/dataset                   loaded dataset
//	POST /api/dataset                   multipart upload replacing it
//
// # Filter parameters
//
// item_type and outlet_size may be repeated or comma separated. Leaving a
// parameter out keeps the default (everything in the dataset); sending it
// with no value selects nothing:
//
//	/api/dashboard?item_type=Dairy&item_type=Canned&year_min=2010
//	/api/dashboard/kpis?outlet_size=
//
// year_min and year_max are clamped to the years present in the dataset.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/dataset/not-loaded",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "No dataset is loaded",
//	    "instance": "/api/dashboard"
//	}
package http
