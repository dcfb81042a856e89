// Command dbinspect prints what PostgreSQL actually holds for the API schema.
//
//	dbinspect tables
//	dbinspect columns blogs
//	dbinspect constraints [table]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"

	"gorm.io/gorm"
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatal(err)
	}
	db = db.WithContext(context.Background())

	switch flag.Arg(0) {
	case "tables":
		err = printTables(db)
	case "columns":
		if flag.NArg() < 2 {
			log.Fatal("usage: dbinspect columns <table>")
		}
		err = printColumns(db, flag.Arg(1))
	case "constraints":
		err = printConstraints(db, flag.Arg(1))
	default:
		log.Fatal("usage: dbinspect <tables|columns|constraints> [table]")
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printTables(db *gorm.DB) error {
	var tables []string
	if err := db.Raw("SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name").
		Scan(&tables).Error; err != nil {
		return err
	}
	fmt.Println("Tables in public schema:")
	for _, t := range tables {
		var count int64
		if err := db.Table(t).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", t, err)
		}
		fmt.Printf(" - %s (%d rows)\n", t, count)
	}
	return nil
}

func printColumns(db *gorm.DB, table string) error {
	var columns []struct {
		ColumnName string `gorm:"column:column_name"`
		DataType   string `gorm:"column:data_type"`
		IsNullable string `gorm:"column:is_nullable"`
	}
	if err := db.Raw(`SELECT column_name, data_type, is_nullable FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = ? ORDER BY ordinal_position`, table).
		Scan(&columns).Error; err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("table %q not found", table)
	}
	fmt.Printf("Columns in %s:\n", table)
	for _, c := range columns {
		fmt.Printf(" - %s: %s (nullable=%s)\n", c.ColumnName, c.DataType, c.IsNullable)
	}
	return nil
}

// printConstraints lists constraints in the public schema, optionally for one table.
func printConstraints(db *gorm.DB, table string) error {
	var result []struct {
		Relname string `gorm:"column:relname"`
		Conname string `gorm:"column:conname"`
		Def     string `gorm:"column:def"`
	}
	q := db.Raw(`SELECT r.relname, c.conname, pg_get_constraintdef(c.oid) AS def
		FROM pg_constraint c
		JOIN pg_class r ON c.conrelid = r.oid
		JOIN pg_namespace n ON n.oid = r.relnamespace
		WHERE n.nspname = 'public' AND (? = '' OR r.relname = ?)
		ORDER BY r.relname, c.conname`, table, table)
	if err := q.Scan(&result).Error; err != nil {
		return err
	}
	fmt.Println("Constraints (public schema):")
	for _, r := range result {
		fmt.Printf(" - %s on %s: %s\n", r.Conname, r.Relname, r.Def)
	}
	return nil
}
