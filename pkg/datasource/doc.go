// Package datasource provides model.DataSource implementations that serve
// variable values on demand.
package datasource
