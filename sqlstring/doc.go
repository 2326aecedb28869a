// Package sqlstring assembles parameterized SQL text from structured
// inputs. Every function that binds user values returns the SQL text
// together with the bound values, in placeholder order, so the caller
// can hand both to the driver without ever interpolating values into
// the query string.
package sqlstring
