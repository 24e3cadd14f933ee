package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/lintang-b-s/bptreedb/lib/buffer"
	"github.com/lintang-b-s/bptreedb/lib/catalog"
	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/index"
	"github.com/lintang-b-s/bptreedb/lib/log"
	"github.com/lintang-b-s/bptreedb/lib/tree"
)

func main() {
	dm, err := disk.NewDiskManager("bptreedb_data", disk.PageSize)
	if err != nil {
		panic(err)
	}
	defer dm.Close()

	lm, err := log.NewLogManager(dm)
	if err != nil {
		panic(err)
	}

	bpm := buffer.NewBufferPoolManager(64, dm, lm, 2)

	header, err := catalog.NewHeaderCatalog(bpm)
	if err != nil {
		panic(err)
	}

	bt, err := index.NewBPlusTree[int64, tree.RID](
		"demo", bpm, header, index.Int64Comparator, tree.Int64Codec{}, tree.RIDCodec{}, 64, 64,
	)
	if err != nil {
		panic(err)
	}

	faker := gofakeit.New(0)
	startTimer := time.Now()

	const n = 1e4
	for i := 0; i < n; i++ {
		key := int64(faker.Number(0, 10*n))
		if _, err := bt.Insert(key, tree.RID{PageID: disk.PageID(key), Slot: int32(i)}); err != nil {
			panic(err)
		}
		if (i+1)%1000 == 0 {
			fmt.Printf("%v seconds for %d inserts\n", time.Since(startTimer).Seconds(), i+1)
		}
	}

	if err := bpm.FlushAll(); err != nil {
		panic(err)
	}

	fmt.Printf("%v seconds total\n", time.Since(startTimer).Seconds())
}
