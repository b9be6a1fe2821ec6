package query

import "fmt"

// SchemaField describe un campo del esquema de respuesta: nombre canónico y alias público opcional.
type SchemaField struct {
	Name  string
	Alias string
}

// AliasMap traduce nombres públicos (camelCase) a columnas y viceversa.
// Es inmutable tras su construcción.
type AliasMap struct {
	toColumn map[string]string
	toPublic map[string]string
}

// NewAliasMap construye el mapa a partir de los campos del esquema.
// Un esquema con nombres públicos repetidos es un error de programación.
func NewAliasMap(fields ...SchemaField) AliasMap {
	m := AliasMap{
		toColumn: make(map[string]string, len(fields)),
		toPublic: make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		public := f.Alias
		if public == "" {
			public = f.Name
		}
		if prev, dup := m.toColumn[public]; dup {
			panic(fmt.Sprintf("alias map: public name %q declared for %q and %q", public, prev, f.Name))
		}
		if _, dup := m.toPublic[f.Name]; dup {
			panic(fmt.Sprintf("alias map: column %q declared twice", f.Name))
		}
		m.toColumn[public] = f.Name
		m.toPublic[f.Name] = public
	}
	return m
}

// Resolve devuelve la columna canónica de un nombre público.
// Los nombres sin alias se resuelven a sí mismos.
func (m AliasMap) Resolve(public string) string {
	if col, ok := m.toColumn[public]; ok {
		return col
	}
	return public
}

// Public devuelve el nombre público de una columna.
func (m AliasMap) Public(column string) string {
	if public, ok := m.toPublic[column]; ok {
		return public
	}
	return column
}
