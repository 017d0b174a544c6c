// Package database opens the SQL database used by the run journal.
//
// It wraps GORM and supports two drivers: sqlite (a local file, the default)
// and mysql for installations that already run a database server.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
package database
