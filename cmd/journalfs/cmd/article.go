package cmd

import (
	"context"

	"github.com/fairjournal/journalfs/pkg/web"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Commands to read articles",
	Long: `Commands to read articles.

An article is a directory /articles/<slug> holding a JSON document named index-json.`,
}

var articleList = &cobra.Command{
	Use:     "list",
	Short:   "List the articles of a user, in publication order",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		articles, err := web.NewClient(journalFlags.root.server).ListArticles(context.Background(), journalFlags.user.address)
		if err != nil {
			wrapFatalln("list articles", err)
			return
		}
		err = render(outLogger.Writer(), journalFlags.output.format, articles, func(t *uitable.Table) {
			t.AddRow(header("SLUG", "SHORT TEXT")...)
			for _, article := range articles {
				t.AddRow(article.Slug, article.ShortText)
			}
		})
		if err != nil {
			wrapFatalln("print articles", err)
		}
	},
}

var articleGet = &cobra.Command{
	Use:   "get",
	Short: "Print the JSON document of an article",
	Run: func(cmd *cobra.Command, args []string) {
		article, err := web.NewClient(journalFlags.root.server).GetArticle(context.Background(), journalFlags.user.address, journalFlags.article.slug)
		if err != nil {
			wrapFatalln("get article", err)
			return
		}
		outLogger.Println(string(article.Data))
	},
}

func init() {
	requireFlags(articleList, addAddressFlag(articleList))
	addFormatFlag(articleList)
	articleCmd.AddCommand(articleList)

	requireFlags(articleGet, addAddressFlag(articleGet), addSlugFlag(articleGet))
	articleCmd.AddCommand(articleGet)

	rootCmd.AddCommand(articleCmd)
}
