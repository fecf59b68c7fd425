package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simdex/simdex/similarity"
	"github.com/simdex/simdex/store"
)

var hashMinimal bool

// printHashes cooks the similarity features of one file and prints them as a
// feature collection.
func printHashes(name string, minimal bool) {
	file, err := os.Open(name)
	if err != nil {
		fmt.Printf("*Unable to open: %s (%v)\n", name, err)
		return
	}
	defer file.Close()

	hasher := similarity.NewHasher(minimal)
	buf := make([]byte, 64*1024)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			if werr := hasher.Write(buf[:n]); werr != nil {
				fmt.Printf("*Unable to hash: %s (%v)\n", name, werr)
				return
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("*Unable to read: %s (%v)\n", name, err)
			return
		}
	}

	fc, err := hasher.Cook()
	if err != nil {
		fmt.Printf("*Unable to hash: %s (%v)\n", name, err)
		return
	}
	raw, err := store.MarshalFC(fc)
	if err != nil {
		fmt.Printf("*Unable to marshal: %s (%v)\n", name, err)
		return
	}
	fmt.Printf("%s\t%s\n", name, raw)
}

// runHash walks the directory tree, printing hashes for each file encountered.
func runHash(args []string) {
	for _, name := range args {
		fi, err := os.Stat(name)
		if err != nil {
			fmt.Printf("*Unable to stat: %s (%v)\n", name, err)
			continue
		}
		if !fi.IsDir() {
			printHashes(name, hashMinimal)
			continue
		}
		err = filepath.Walk(name,
			func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.Mode().IsRegular() {
					printHashes(path, hashMinimal)
				}
				return nil
			})
		if err != nil {
			fmt.Printf("*Unable to walk dir: %s (%v)\n", name, err)
		}
	}
}

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash <dir/path>...",
	Short: "Cook similarity features for specified files/directories",
	Long: `Hashes one or more files or directories and prints the feature
collection each file would be stored with.`,
	Args: cobra.MatchAll(cobra.MinimumNArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		runHash(args)
	},
}

func init() {
	hashCmd.Flags().BoolVar(&hashMinimal, "minimal", false, "only cook sha256 and nilsimsa")
	rootCmd.AddCommand(hashCmd)
}
