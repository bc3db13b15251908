// Copyright 2024 The gcsclient Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcsclient/gcsclient/gcs"
)

var (
	listPrefix    string
	listDelimiter string
	listVersions  bool
)

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "Operate on objects",
}

var objectsListCmd = &cobra.Command{
	Use:   "list <bucket>",
	Short: "List a bucket's objects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		objects, err := client.Bucket(args[0]).ListObjects(cmd.Context(), &gcs.ListObjectsOptions{
			Prefix:    listPrefix,
			Delimiter: listDelimiter,
			Versions:  listVersions,
		})
		if err != nil {
			return err
		}
		for _, o := range objects {
			fmt.Fprintln(cmd.OutOrStdout(), o.Name)
		}
		return nil
	},
}

var objectsStatCmd = &cobra.Command{
	Use:   "stat <bucket> <object>",
	Short: "Print an object's attributes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		object := client.Object(args[0], args[1])
		for _, attr := range []string{"size", "contentType", "generation", "md5Hash", "updated", "storageClass"} {
			value, err := object.Attribute(cmd.Context(), attr)
			if err != nil {
				var notFound *gcs.AttributeNotFoundError
				if errors.As(err, &notFound) {
					continue
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", attr, value)
		}
		return nil
	},
}

var objectsExistsCmd = &cobra.Command{
	Use:   "exists <bucket> <object>",
	Short: "Report whether an object exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		exists, err := client.Object(args[0], args[1]).Exists(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	},
}

var objectsDeleteCmd = &cobra.Command{
	Use:   "rm <bucket> <object>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		return client.Object(args[0], args[1]).Delete(cmd.Context())
	},
}

func init() {
	objectsListCmd.Flags().StringVar(&listPrefix, "prefix", "", "Only list objects whose names start with the prefix.")
	objectsListCmd.Flags().StringVar(&listDelimiter, "delimiter", "", "Collapse names sharing a prefix up to the delimiter.")
	objectsListCmd.Flags().BoolVar(&listVersions, "versions", false, "Include noncurrent object versions.")

	objectsCmd.AddCommand(objectsListCmd, objectsStatCmd, objectsExistsCmd, objectsDeleteCmd)
	rootCmd.AddCommand(objectsCmd)
}
