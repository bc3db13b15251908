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
	projectID          string
	bucketLocation     string
	bucketStorageClass string
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Operate on buckets",
}

var bucketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's buckets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		buckets, err := client.Project(projectID).ListBuckets(cmd.Context(), nil)
		if err != nil {
			return err
		}
		for _, b := range buckets {
			fmt.Fprintln(cmd.OutOrStdout(), b.Name)
		}
		return nil
	},
}

var bucketsCreateCmd = &cobra.Command{
	Use:   "create <bucket>",
	Short: "Create a bucket in the project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		bucket, err := client.Project(projectID).CreateBucket(cmd.Context(), args[0], &gcs.CreateBucketOptions{
			Location:     bucketLocation,
			StorageClass: bucketStorageClass,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", bucket.Name)
		return nil
	},
}

var bucketsStatCmd = &cobra.Command{
	Use:   "stat <bucket>",
	Short: "Print a bucket's attributes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		bucket := client.Bucket(args[0])
		for _, attr := range []string{"location", "storageClass", "timeCreated", "metageneration"} {
			value, err := bucket.Attribute(cmd.Context(), attr)
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

var bucketsExistsCmd = &cobra.Command{
	Use:   "exists <bucket>",
	Short: "Report whether a bucket exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		exists, err := client.Bucket(args[0]).Exists(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	},
}

var bucketsDeleteCmd = &cobra.Command{
	Use:   "rm <bucket>",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), &config)
		if err != nil {
			return err
		}
		return client.Bucket(args[0]).Delete(cmd.Context())
	},
}

func init() {
	bucketsCmd.PersistentFlags().StringVar(&projectID, "project", "", "Project id owning the buckets.")
	bucketsCreateCmd.Flags().StringVar(&bucketLocation, "location", "", "Bucket location, e.g. US or EU.")
	bucketsCreateCmd.Flags().StringVar(&bucketStorageClass, "storage-class", "", "Default storage class for the bucket.")

	bucketsCmd.AddCommand(bucketsListCmd, bucketsCreateCmd, bucketsStatCmd, bucketsExistsCmd, bucketsDeleteCmd)
	rootCmd.AddCommand(bucketsCmd)
}
