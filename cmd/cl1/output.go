package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-cohesion/pkg/clusterone"
	"github.com/dd0wney/cluso-cohesion/pkg/ingest"
	"github.com/dd0wney/cluso-cohesion/pkg/resultview"
)

type resultWriter func(w io.Writer, res *clusterone.Result, ds *ingest.Dataset) error

func writerFor(format string, detailed bool) (resultWriter, error) {
	switch strings.ToLower(format) {
	case "plain":
		return writePlain, nil
	case "csv":
		return func(w io.Writer, res *clusterone.Result, ds *ingest.Dataset) error {
			return writeCSV(w, res, ds, detailed)
		}, nil
	case "json":
		return writeJSON, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// writePlain prints one cluster per line, members separated by tabs.
func writePlain(w io.Writer, res *clusterone.Result, ds *ingest.Dataset) error {
	for _, c := range res.Clusters {
		if _, err := fmt.Fprintln(w, c.Names(ds.Name, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, res *clusterone.Result, ds *ingest.Dataset, detailed bool) error {
	table := resultview.NewTableModel(res.Clusters, ds.Name)
	table.SetDetailedMode(detailed)

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header()); err != nil {
		return err
	}
	for row := range table.RowCount() {
		if err := cw.Write(table.Row(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonCluster struct {
	Members        []string `json:"members"`
	Size           int      `json:"size"`
	Density        float64  `json:"density"`
	InternalWeight float64  `json:"internal_weight"`
	BoundaryWeight float64  `json:"boundary_weight"`
	Quality        float64  `json:"quality"`
}

type jsonResult struct {
	RunID    string        `json:"run_id"`
	Clusters []jsonCluster `json:"clusters"`
}

func writeJSON(w io.Writer, res *clusterone.Result, ds *ingest.Dataset) error {
	out := jsonResult{RunID: res.RunID, Clusters: make([]jsonCluster, len(res.Clusters))}
	for i, c := range res.Clusters {
		names := make([]string, len(c.Members))
		for j, v := range c.Members {
			names[j] = ds.Name(v)
		}
		out.Clusters[i] = jsonCluster{
			Members:        names,
			Size:           c.Size,
			Density:        c.Density,
			InternalWeight: c.InternalWeight,
			BoundaryWeight: c.BoundaryWeight,
			Quality:        c.Quality,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
