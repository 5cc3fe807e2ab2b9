package entity

import "time"

// Category categoría de productos (nombre único).
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Color color de producto (nombre único, hex opcional).
type Color struct {
	ID      string
	Name    string
	HexCode *string
}

// Unit unidad de medida (nombre único).
type Unit struct {
	ID   string
	Name string
}
