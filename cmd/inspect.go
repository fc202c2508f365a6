package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/df07/bounce/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// InspectBVH builds the scene's BVH and prints its statistics, and with --tree the whole tree
func InspectBVH(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	src, err := resolveSceneSource(ctx)
	if err != nil {
		return err
	}
	s, err := src.Load()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.Preprocess(); err != nil {
		return err
	}
	buildTime := time.Since(start)
	stats := s.BVH.Stats()
	bounds := s.BVH.BoundingBox()

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"BVH", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", stats.Primitives)})
	table.Append([]string{"Unbounded objects", fmt.Sprintf("%d", len(s.Unbounded))})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", stats.TotalNodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", stats.LeafNodes)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Append([]string{"Avg leaf depth", fmt.Sprintf("%.2f", stats.AvgDepth)})
	table.Append([]string{"Max leaf size", fmt.Sprintf("%d", stats.MaxLeafSize)})
	if !bounds.IsEmpty() {
		table.Append([]string{"Bounds", fmt.Sprintf("%v - %v", bounds.Min, bounds.Max)})
	}
	table.Append([]string{"Build time", buildTime.String()})
	table.Render()

	if ctx.Bool("tree") {
		return s.BVH.Print(ctx.App.Writer)
	}
	return nil
}

// InspectPixel reports what the camera sees through the center of one pixel
func InspectPixel(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	if !ctx.IsSet("x") || !ctx.IsSet("y") {
		return fmt.Errorf("both --x and --y are required")
	}

	src, err := resolveSceneSource(ctx)
	if err != nil {
		return err
	}
	s, err := src.Load()
	if err != nil {
		return err
	}
	width, height, err := frameSize(ctx, s)
	if err != nil {
		return err
	}

	result, err := renderer.InspectPixel(s, width, height, ctx.Int("x"), ctx.Int("y"))
	if err != nil {
		return err
	}
	if !result.Hit {
		fmt.Fprintf(ctx.App.Writer, "pixel (%d, %d): no hit, sky\n", ctx.Int("x"), ctx.Int("y"))
		return nil
	}

	hit := result.HitRecord
	materialType, materialProps := renderer.DescribeMaterial(hit.Material)
	geometryType, geometryProps := renderer.DescribeShape(result.Shape)

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Distance", fmt.Sprintf("%.6g", hit.T)})
	table.Append([]string{"Point", fmt.Sprintf("%v", hit.Point)})
	table.Append([]string{"Normal", fmt.Sprintf("%v", hit.Normal)})
	table.Append([]string{"Front face", fmt.Sprintf("%t", hit.FrontFace)})
	table.Append([]string{"Geometry", geometryType})
	appendProperties(table, "geometry", geometryProps)
	table.Append([]string{"Material", materialType})
	appendProperties(table, "material", materialProps)
	table.Render()
	return nil
}

func appendProperties(table *tablewriter.Table, prefix string, properties map[string]interface{}) {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		table.Append([]string{prefix + "." + key, fmt.Sprintf("%v", properties[key])})
	}
}
