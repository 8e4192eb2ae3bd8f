package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cloudbulk/bulk/storage"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage the configured bucket or container",
}

func newBucketManager(ctx context.Context, cmd *cobra.Command) (storage.BucketManager, error) {
	store, err := cfg.NewStore(ctx, bucketName(cmd))
	if err != nil {
		return nil, err
	}
	return store, nil
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		mgr, err := newBucketManager(ctx, cmd)
		if err != nil {
			return err
		}
		if err := mgr.CreateBucket(ctx); err != nil {
			return err
		}
		cmd.Printf("bucket %q created\n", bucketName(cmd))
		return nil
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the bucket, emptying it first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		mgr, err := newBucketManager(ctx, cmd)
		if err != nil {
			return err
		}
		if err := mgr.EmptyBucket(ctx); err != nil {
			return err
		}
		if err := mgr.DeleteBucket(ctx); err != nil {
			return err
		}
		cmd.Printf("bucket %q deleted\n", bucketName(cmd))
		return nil
	},
}

var bucketEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Delete every object in the bucket, keeping the bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		mgr, err := newBucketManager(ctx, cmd)
		if err != nil {
			return err
		}
		if err := mgr.EmptyBucket(ctx); err != nil {
			return err
		}
		cmd.Printf("bucket %q emptied\n", bucketName(cmd))
		return nil
	},
}

var bucketLsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List objects in the bucket, optionally under a prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		ctx := cmd.Context()
		store, err := cfg.NewStore(ctx, bucketName(cmd))
		if err != nil {
			return err
		}

		objects, err := store.ListObjects(ctx, prefix)
		if err != nil {
			return err
		}
		for _, obj := range objects {
			cmd.Printf("%12d  %s\n", obj.Size, obj.Key)
		}
		cmd.Printf("%d objects\n", len(objects))
		return nil
	},
}

func init() {
	bucketCmd.AddCommand(bucketCreateCmd)
	bucketCmd.AddCommand(bucketDeleteCmd)
	bucketCmd.AddCommand(bucketEmptyCmd)
	bucketCmd.AddCommand(bucketLsCmd)
}
