package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/landmark"
)

// landmarksCommand lists the built-in landmarks.
func (c *CLI) landmarksCommand() *cobra.Command {
	var (
		geojson bool
		near    []float64
	)

	cmd := &cobra.Command{
		Use:   "landmarks",
		Short: "List the built-in Seoul landmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if geojson {
				data, err := landmark.FeatureCollection()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}

			list := landmark.All()
			headers := []string{"Name", "Lat", "Lon", "Description"}
			var origin *[2]float64
			if cmd.Flags().Changed("near") {
				if len(near) != 2 {
					return errors.New(errors.ErrCodeInvalidInput, "--near takes lat,lon")
				}
				origin = &[2]float64{near[0], near[1]}
				list = landmark.ByDistance(near[0], near[1])
				headers = append(headers, "km")
			}

			rows := make([][]string, len(list))
			for i, l := range list {
				rows[i] = []string{l.Name, formatCoord(l.Lat), formatCoord(l.Lon), l.Description}
				if origin != nil {
					d := landmark.Distance(origin[0], origin[1], l.Lat, l.Lon)
					rows[i] = append(rows[i], strconv.FormatFloat(d, 'f', 2, 64))
				}
			}
			if origin != nil {
				l, d := landmark.Nearest(origin[0], origin[1])
				printInfo(w, "Nearest: %s (%s km)", l.Name, strconv.FormatFloat(d, 'f', 2, 64))
			}
			fmt.Fprintln(w, newTable(headers...).Rows(rows...).Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&geojson, "geojson", false, "print a GeoJSON FeatureCollection")
	cmd.Flags().Float64SliceVar(&near, "near", nil, "sort by distance from lat,lon")

	return cmd
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
