package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rawbytedev/zcstring"
	"github.com/rawbytedev/zcstring/pkg/zcjson"
	"github.com/rawbytedev/zcstring/pkg/zcwire"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newJSONCmd(a *app) *cobra.Command {
	var paths []string
	cmd := &cobra.Command{
		Use:   "json FILE",
		Short: "Decode a JSON document and list its strings",
		Long: `Decode a JSON document and print every string value with its location.

Examples:
  # Every string in the document
  zcstring json event.json

  # Selected values, using gjson path syntax
  zcstring json event.json --path user.name --path tags.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := zcstring.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(paths) > 0 {
				for _, p := range paths {
					v, ok := zcjson.Get(src, p)
					if !ok {
						return fmt.Errorf("path %q not found", p)
					}
					fmt.Fprintf(out, "%s\t%s\t%s\n", p, kind(v.SameBuffer(src)), v)
				}
				return nil
			}

			dec := zcjson.NewDecoder(a.cfg.DecoderOptions(a.log))
			var doc any
			if err := dec.Unmarshal(src, &doc); err != nil {
				return err
			}
			printStrings(out, src, "$", doc)

			s := dec.Stats()
			a.log.Info("decoded",
				zap.String("file", args[0]),
				zap.Uint64("borrowed", s.Borrowed),
				zap.Uint64("owned", s.Owned),
			)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&paths, "path", nil, "gjson path to print (repeatable)")
	return cmd
}

func printStrings(out io.Writer, src zcstring.View, path string, v any) {
	switch v := v.(type) {
	case zcstring.View:
		fmt.Fprintf(out, "%s\t%s\t%q\n", path, kind(v.SameBuffer(src)), v.String())
	case []any:
		for i, e := range v {
			printStrings(out, src, path+"["+strconv.Itoa(i)+"]", e)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			printStrings(out, src, path+"."+k, v[k])
		}
	}
}

func newLinesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lines FILE",
		Short: "List the trimmed, non-empty lines of a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := zcstring.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			n := 0
			for l := range src.Lines() {
				n++
				l = l.Map(strings.TrimSpace)
				if l.IsEmpty() {
					continue
				}
				fmt.Fprintf(out, "%d\t%s\t%s\n", n, kind(src.SourceOf(l.String())), l)
			}
			a.log.Debug("read lines", zap.String("file", args[0]), zap.Int("lines", n))
			return nil
		},
	}
}

func newFrameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "frame FILE",
		Short: "Decode the zcwire frames stored in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			for i := 0; ; i++ {
				frame, err := zcwire.ReadFrame(f)
				if errors.Is(err, io.EOF) {
					a.log.Debug("read frames", zap.String("file", args[0]), zap.Int("frames", i))
					return nil
				}
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				fields, err := zcwire.Decode(frame)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				for j, v := range fields {
					fmt.Fprintf(out, "%d\t%d\t%s\t%q\n", i, j, kind(v.SameBuffer(frame)), v.String())
				}
			}
		},
	}
}

func newPackCmd(a *app) *cobra.Command {
	var output string
	var compress bool
	cmd := &cobra.Command{
		Use:   "pack FILE",
		Short: "Pack the trimmed, non-empty lines of a text file into a zcwire frame",
		Long: `Pack the trimmed, non-empty lines of a text file into one zcwire frame.

Examples:
  # Append a frame to batches.zc
  zcstring pack names.txt --out batches.zc --compress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := zcstring.ReadFile(args[0])
			if err != nil {
				return err
			}
			var fields []zcstring.View
			for l := range src.Lines() {
				if l = l.Map(strings.TrimSpace); !l.IsEmpty() {
					fields = append(fields, l)
				}
			}

			opts := a.cfg.EncoderOptions()
			if cmd.Flags().Changed("compress") {
				opts.Compress = compress
			}
			enc, err := zcwire.NewEncoder(opts)
			if err != nil {
				return err
			}
			defer enc.Close()
			data, err := enc.EncodeViews(fields)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
			a.log.Info("packed frame",
				zap.Int("fields", len(fields)),
				zap.Int("bytes", len(data)),
				zap.Bool("compressed", opts.Compress),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "file to append the frame to (default stdout)")
	cmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress the payload")
	return cmd
}
