package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andreyvit/rowdb/row"
	"gopkg.in/yaml.v3"
)

type layoutColumn struct {
	Nickname string `yaml:"nickname"`
	Kind     string `yaml:"kind"`
	Encoder  string `yaml:"encoder"`
	Offset   int    `yaml:"offset"`
	Width    int    `yaml:"width"`
	Comment  string `yaml:"comment,omitempty"`
}

type layoutDoc struct {
	Structure string         `yaml:"structure"`
	Width     int            `yaml:"width"`
	Columns   []layoutColumn `yaml:"columns"`
}

func newLayoutDoc(r *row.Row) *layoutDoc {
	doc := &layoutDoc{
		Structure: r.Structure(),
		Width:     r.ObjectSize(),
	}
	for i := 0; i < r.Columns(); i++ {
		col := r.Column(i)
		doc.Columns = append(doc.Columns, layoutColumn{
			Nickname: col.Nickname,
			Kind:     col.Kind.String(),
			Encoder:  col.Encoder.String(),
			Offset:   r.Offset(i),
			Width:    col.Width,
			Comment:  col.Comment,
		})
	}
	return doc
}

func outputLayoutText(out io.Writer, r *row.Row) error {
	doc := newLayoutDoc(r)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NICKNAME\tKIND\tENCODER\tOFFSET\tWIDTH\tCOMMENT")
	for _, col := range doc.Columns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", col.Nickname, col.Kind, col.Encoder, col.Offset, col.Width, col.Comment)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Total width: %d\n", doc.Width)
	return err
}

func outputLayoutYAML(out io.Writer, r *row.Row) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(newLayoutDoc(r)); err != nil {
		return err
	}
	return enc.Close()
}

// outputEntry prints the entry in property form, falling back to the debug
// rendering for layouts property form cannot express.
func outputEntry(out io.Writer, e *row.Entry) error {
	s, err := e.ToPropertyForm(true)
	if err != nil {
		s = e.String()
	}
	_, err = fmt.Fprintln(out, s)
	return err
}
