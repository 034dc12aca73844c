package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Cubiaa/kernel-dataset/dataset"
)

func main() {
	fmt.Println("=== 玉米籽粒数据集整理 ===")

	config := dataset.DefaultConfig().
		WithAnnotations("annotations.xml").
		WithImageDir("dataset/images").
		WithLabelDir("dataset/label").
		WithOutputDir("dataset/split").
		WithRatios(0.8, 0.1).
		WithSeed(42)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	preparer, err := dataset.NewPreparer(config, logger)
	if err != nil {
		log.Fatalf("创建整理器失败: %v", err)
	}

	// 输出带轮廓的图片，便于人工检查标注
	preparer.SetVisualizeOptions(dataset.DefaultVisualizeOptions().
		WithLineColor("green").
		WithDrawIndices(true))

	report, err := preparer.Run()
	if err != nil {
		log.Fatalf("整理失败: %v", err)
	}

	fmt.Println("📊", report.Summary)
	fmt.Printf("📂 train %d, val %d, test %d\n",
		report.Split.Count(dataset.SplitTrain),
		report.Split.Count(dataset.SplitVal),
		report.Split.Count(dataset.SplitTest))
	fmt.Printf("💡 训练命令: %s\n", preparer.TrainCommand())
	fmt.Println("✅ 完成！")
}
