package service

import (
	"github.com/google/uuid"

	"github.com/dukerupert/presswork/internal/domain"
)

const (
	groupSize   int64 = 1
	groupFinish int64 = 2

	valueSmall int64 = 11
	valueLarge int64 = 12
	valueMatte int64 = 21
	valueGloss int64 = 22
)

// seedStickers adds a sticker product priced at 100.00 with a Size group
// (Small +0, Large +20 default) and a Finish group (Matte +5 default,
// Gloss +0). Every size/finish pair is a combination.
func seedStickers(f *fakeStore) uuid.UUID {
	id := f.addProduct("Die Cut Stickers", "custom-stickers", 10000)
	f.addValue(id, groupSize, "Size", valueSmall, "Small", 0, false)
	f.addValue(id, groupSize, "Size", valueLarge, "Large", 2000, true)
	f.addValue(id, groupFinish, "Finish", valueMatte, "Matte", 500, true)
	f.addValue(id, groupFinish, "Finish", valueGloss, "Gloss", 0, false)

	f.addCombination(id, 101, valueSmall, valueMatte)
	f.addCombination(id, 102, valueSmall, valueGloss)
	f.addCombination(id, 103, valueLarge, valueMatte)
	f.addCombination(id, 104, valueLarge, valueGloss)
	return id
}

func stickerGroups() []domain.VariantGroup {
	return []domain.VariantGroup{
		{ID: groupSize, Name: "Size", InputStyle: "select", Values: []domain.VariantValue{
			{ID: valueSmall, GroupID: groupSize, Name: "Small", PriceDelta: dec("0")},
			{ID: valueLarge, GroupID: groupSize, Name: "Large", PriceDelta: dec("20"), IsDefault: true},
		}},
		{ID: groupFinish, Name: "Finish", InputStyle: "select", Values: []domain.VariantValue{
			{ID: valueMatte, GroupID: groupFinish, Name: "Matte", PriceDelta: dec("5"), IsDefault: true},
			{ID: valueGloss, GroupID: groupFinish, Name: "Gloss", PriceDelta: dec("0")},
		}},
	}
}
