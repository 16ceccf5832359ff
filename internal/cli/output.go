package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/svewap/ext-oelib-sub002/pkg/model"
)

// export flattens r for output: related records become their uid and
// collections the list of member uids.
func export(r *model.Record) (map[string]any, error) {
	data, err := r.GetData()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(data)+1)
	out["uid"] = r.UID()
	for k, v := range data {
		switch v := v.(type) {
		case *model.Record:
			out[k] = v.UID()
		case *model.Collection:
			uids := make([]int, 0, v.Count())
			for _, m := range v.All() {
				uids = append(uids, m.UID())
			}
			out[k] = uids
		default:
			out[k] = v
		}
	}
	return out, nil
}

// printRecords writes records as a JSON array in JSON mode, otherwise one
// line of sorted key=value pairs per record.
func printRecords(w io.Writer, jsonMode bool, records ...*model.Record) error {
	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		row, err := export(r)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if jsonMode {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal records: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	for _, row := range rows {
		var b strings.Builder
		b.WriteString("uid=" + cast.ToString(row["uid"]))
		for _, k := range slices.Sorted(maps.Keys(row)) {
			if k == "uid" {
				continue
			}
			fmt.Fprintf(&b, " %s=%s", k, formatValue(row[k]))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return `""`
	case []int:
		parts := make([]string, len(v))
		for i, uid := range v {
			parts[i] = strconv.Itoa(uid)
		}
		return strings.Join(parts, ",")
	case string:
		if v == "" || strings.ContainsAny(v, " \t\"") {
			return fmt.Sprintf("%q", v)
		}
		return v
	default:
		return cast.ToString(v)
	}
}
