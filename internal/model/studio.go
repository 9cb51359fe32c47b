package model

// Studio справочные данные студии для экранов «О студии» и «Контакты»
type Studio struct {
	Name       string
	Address    string
	Phone      string
	Email      string
	Hours      string
	Directions string
	Socials    []string
}
