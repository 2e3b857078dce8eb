package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/carescreen/ent/schema"
)

const llmEventsTable = "llm_request_events"

// llmEventsSchema is the llm_request_events table. Its column order is
// also the scan order used by the repository.
var llmEventsSchema = tableFor(llmEventsTable, entschema.LLMRequestEvent{})

var llmEventColumns = llmEventsSchema.Columns

// Tables lists every table managed by the migrator.
var Tables = []*schema.Table{
	llmEventsSchema,
}

// entSchema is the part of an ent schema definition the migrator needs.
type entSchema interface {
	Mixin() []ent.Mixin
	Fields() []ent.Field
	Indexes() []ent.Index
}

// tableFor lays out the table of an ent schema the way ent's generated
// migrate package does: an auto-increment "id", then mixin fields, then
// the schema's own fields. Indexes are named <type>_<fields>.
func tableFor(name string, s entSchema) *schema.Table {
	t := &schema.Table{Name: name}
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t.Columns = append(t.Columns, id)
	t.PrimaryKey = []*schema.Column{id}

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	byName := map[string]*schema.Column{id.Name: id}
	for _, f := range fields {
		d := f.Descriptor()
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		// Function defaults (time.Now) are applied by the repository.
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			c.Default = d.Default
		}
		t.Columns = append(t.Columns, c)
		byName[c.Name] = c
	}

	prefix := strings.ToLower(reflect.TypeOf(s).Name())
	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{
			Name:   prefix + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, fname := range d.Fields {
			c, ok := byName[fname]
			if !ok {
				panic(fmt.Sprintf("store: index on unknown column %s.%s", name, fname))
			}
			idx.Columns = append(idx.Columns, c)
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t
}

func columnNames(cols []*schema.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}
